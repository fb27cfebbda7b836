package extract

// Recognizer finds place-name candidates in a single sentence.
// Candidates come back ordered left to right by offset.
type Recognizer interface {
	Recognize(sentence string) []Candidate
	// Method is the provenance tag stamped on mentions this recognizer
	// produces.
	Method() string
}

// NewRecognizer selects a strategy once: the morphological recognizer when
// the tokenizer initializes, otherwise the regex/gazetteer fallback.
// Callers observe the choice only through the extraction-method tag.
func NewRecognizer() Recognizer {
	if r, err := NewKagomeRecognizer(); err == nil {
		return r
	}
	return NewPatternRecognizer()
}
