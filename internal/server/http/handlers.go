package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/medbiblio/biblio-enrichment-service/internal/domain"
)

// harvestHandler runs a harvest batch over the submitted term variants and
// reconciles the results with the user's record store.
func (s *Server) harvestHandler(w http.ResponseWriter, r *http.Request) {
	var req harvestRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	sess := domain.NewSession(userIDFromContext(r.Context()))
	report, err := s.service.HarvestAndEnrich(r.Context(), *sess, req.Terms)
	if err != nil {
		s.logger.Error().Err(err).Msg("harvest batch failed")
		writeError(w, http.StatusInternalServerError, "harvest failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// manualRecordHandler enriches one user-entered article tuple and appends it
// to the user's store.
func (s *Server) manualRecordHandler(w http.ResponseWriter, r *http.Request) {
	var req manualRecordRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	sess := domain.NewSession(userIDFromContext(r.Context()))
	citation := domain.NewCitation(req.Authors, req.Title, req.Detail)
	record, err := s.service.EnrichManual(r.Context(), *sess, citation)
	if err != nil {
		s.logger.Error().Err(err).Msg("manual record enrichment failed")
		writeError(w, http.StatusInternalServerError, "enrichment failed")
		return
	}
	writeJSON(w, http.StatusCreated, enrichedRecordResponse{
		Authors:   record.Citation.Authors,
		Title:     record.Citation.Title,
		Journal:   record.Citation.Journal,
		Remainder: record.Citation.Remainder,
		Tier:      record.Tier,
		Concept:   record.Concept,
		Line:      record.Line(),
	})
}

// resegmentHandler re-runs the field segmenter over the user's stored lines.
func (s *Server) resegmentHandler(w http.ResponseWriter, r *http.Request) {
	sess := domain.NewSession(userIDFromContext(r.Context()))
	report, err := s.service.ResegmentStore(r.Context(), *sess)
	if err != nil {
		s.logger.Error().Err(err).Msg("resegment batch failed")
		writeError(w, http.StatusInternalServerError, "resegment failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// dedupeHandler rewrites the user's store as unique sorted lines.
func (s *Server) dedupeHandler(w http.ResponseWriter, r *http.Request) {
	sess := domain.NewSession(userIDFromContext(r.Context()))
	report, err := s.service.DedupeStore(r.Context(), *sess)
	if err != nil {
		s.logger.Error().Err(err).Msg("dedupe batch failed")
		writeError(w, http.StatusInternalServerError, "dedupe failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// decodeAndValidate decodes the JSON request body into v and validates it.
// On failure it writes the error response and returns false.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, "validation failed on field "+verrs[0].Field())
			return false
		}
		writeError(w, http.StatusBadRequest, "validation failed")
		return false
	}
	return true
}
