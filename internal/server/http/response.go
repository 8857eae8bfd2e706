package httpserver

import (
	"encoding/json"
	"net/http"
)

// Request payloads.

type harvestRequest struct {
	// Terms are the search term variants to harvest, usually spellings of
	// the same author or topic.
	Terms []string `json:"terms" validate:"required,min=1,dive,required"`
}

type manualRecordRequest struct {
	Authors string `json:"authors"`
	Title   string `json:"title" validate:"required"`
	Detail  string `json:"detail" validate:"required"`
}

type journalRequest struct {
	Journal string `json:"journal" validate:"required"`
}

// Response payloads.

type enrichedRecordResponse struct {
	Authors   string `json:"authors"`
	Title     string `json:"title"`
	Journal   string `json:"journal"`
	Remainder string `json:"remainder"`
	Tier      string `json:"tier"`
	Concept   string `json:"concept"`
	Line      string `json:"line"`
}

type classifyResponse struct {
	Journal string `json:"journal"`
	Tier    string `json:"tier"`
}

type tagResponse struct {
	Journal string `json:"journal"`
	Concept string `json:"concept"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
