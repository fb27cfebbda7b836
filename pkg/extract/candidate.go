// Package extract identifies place-name mentions in Japanese literary text
// and scores their reliability.
package extract

// Source tells which recognizer strategy produced a candidate.
type Source int

const (
	// SourceModel marks candidates from the morphological recognizer.
	SourceModel Source = iota
	// SourcePattern marks candidates from the regex/gazetteer fallback.
	SourcePattern
)

// Entity labels assigned to recognized spans.
const (
	LabelProvince = "Province" // first-level administrative region
	LabelCity     = "City"     // municipality (市区町村郡)
	LabelGPE      = "GPE"      // geopolitical entity (country-level)
	LabelLOC      = "LOC"      // generic location
	LabelFAC      = "FAC"      // facility (station, temple, shrine, park)
)

// Candidate is a place-name span found in a single sentence.
// Start and End are rune offsets into the sentence.
type Candidate struct {
	Text   string
	Label  string
	Start  int
	End    int
	Source Source
	// Base is the sub-strategy confidence base for pattern candidates.
	// Unused (zero) for model candidates.
	Base float64
}

// Mention is a scored place occurrence with its narrative context,
// ready for geocoding and persistence.
type Mention struct {
	PlaceName  string
	Sentence   string
	BeforeText string
	AfterText  string
	Label      string
	Method     string
	Confidence float64
}
