package extract

import (
	"log/slog"
	"strings"

	"github.com/m37335/bungo-project/pkg/textseg"
)

// Extractor runs the segmentation, recognition, scoring, and deduplication
// stages over a work's full text.
type Extractor struct {
	rec Recognizer

	// MinSentenceRunes and MaxChunkRunes tune the segmenter; zero means
	// the package defaults.
	MinSentenceRunes int
	MaxChunkRunes    int

	// ContextWindow is the number of neighboring sentences captured as
	// before/after context.
	ContextWindow int

	Logger *slog.Logger
}

// NewExtractor wires an extractor around the given recognizer.
func NewExtractor(rec Recognizer) *Extractor {
	return &Extractor{
		rec:           rec,
		ContextWindow: 1,
		Logger:        slog.Default(),
	}
}

// Method exposes the active recognizer's provenance tag.
func (e *Extractor) Method() string { return e.rec.Method() }

func joinRange(sentences []string, lo, hi int) string {
	if lo < 0 {
		lo = 0
	}
	if hi > len(sentences) {
		hi = len(sentences)
	}
	if lo >= hi {
		return ""
	}
	return strings.Join(sentences[lo:hi], "")
}

// methodTag stamps the provenance of a single mention. Model mentions carry
// their entity label; pattern mentions share a single tag.
func (e *Extractor) methodTag(c Candidate) string {
	if c.Source == SourceModel {
		return e.rec.Method() + "_" + c.Label
	}
	return e.rec.Method()
}

// Extract segments text, recognizes candidates sentence by sentence,
// attaches surrounding context, scores each mention, and collapses
// duplicates. Empty or whitespace-only text yields no mentions.
func (e *Extractor) Extract(text string) []Mention {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var mentions []Mention
	for _, chunk := range textseg.Chunk(text, e.MaxChunkRunes, e.MinSentenceRunes) {
		sentences := textseg.Split(chunk, e.MinSentenceRunes)
		for i, sentence := range sentences {
			for _, c := range e.rec.Recognize(sentence) {
				mentions = append(mentions, Mention{
					PlaceName:  c.Text,
					Sentence:   sentence,
					BeforeText: joinRange(sentences, i-e.ContextWindow, i),
					AfterText:  joinRange(sentences, i+1, i+1+e.ContextWindow),
					Label:      c.Label,
					Method:     e.methodTag(c),
					Confidence: Score(c, sentence),
				})
			}
		}
	}

	deduped := Dedupe(mentions)
	if e.Logger != nil {
		e.Logger.Debug("extraction finished",
			"mentions", len(mentions), "unique", len(deduped))
	}
	return deduped
}
