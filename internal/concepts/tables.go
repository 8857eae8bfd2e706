package concepts

// alias is one curated journal-to-concept mapping.
type alias struct {
	Journal string
	Concept string
}

// conceptEntry pairs a concept label with the keywords that identify it.
// Declaration order is the tie-break: the first concept whose keyword list
// clears the fuzzy cutoff wins.
type conceptEntry struct {
	Concept  string
	Keywords []string
}

// knownJournals maps normalized journal names straight to concepts,
// bypassing keyword matching. Entries come from curation of the side-log.
var knownJournals = []alias{
	{"circulation", "cardiología"},
	{"european heart journal", "cardiología"},
	{"rev esp cardiol", "cardiología"},
	{"j am coll cardiol", "cardiología"},
	{"heart rhythm", "cardiología"},
	{"biomarkers", "biomedicina"},
	{"nature biomedical engineering", "biomedicina"},
	{"lancet neurology", "neurología"},
	{"stroke", "neurología"},
	{"lancet oncology", "oncología"},
	{"jama oncology", "oncología"},
	{"american journal of public health", "salud pública"},
	{"gaceta sanitaria", "salud pública"},
	{"nutrients", "nutrición"},
	{"clinical nutrition", "nutrición"},
	{"pharmacological reviews", "farmacología"},
	{"journal of advanced nursing", "enfermería"},
}

// stopWords are generic journal-title tokens stripped before keyword
// matching.
var stopWords = map[string]bool{
	"journal":       true,
	"review":        true,
	"bulletin":      true,
	"annals":        true,
	"reports":       true,
	"international": true,
	"american":      true,
	"european":      true,
}

// conceptKeywords is the closed concept vocabulary in declared order.
var conceptKeywords = []conceptEntry{
	{"cardiología", []string{"cardiology", "cardiac", "heart", "cardiovascular", "circulation", "corazon"}},
	{"neurología", []string{"neurology", "neuroscience", "brain", "stroke", "neural"}},
	{"oncología", []string{"oncology", "cancer", "tumor", "carcinoma"}},
	{"biomedicina", []string{"biomedicine", "biomedical", "biomarkers", "molecular", "bioengineering"}},
	{"salud pública", []string{"public health", "epidemiology", "community health", "prevention"}},
	{"nutrición", []string{"nutrition", "dietetics", "food", "metabolism"}},
	{"farmacología", []string{"pharmacology", "drug", "pharmaceutical", "therapeutics"}},
	{"enfermería", []string{"nursing", "midwifery", "clinical care"}},
}
