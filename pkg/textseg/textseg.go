// Package textseg splits raw work text into sentence units and bounded chunks.
package textseg

import "strings"

// MinSentenceRunes is the default cutoff below which a fragment is treated
// as noise (stray punctuation, orphaned quotes) and dropped.
const MinSentenceRunes = 5

// DefaultChunkRunes bounds the amount of text handed to the recognizer at once.
const DefaultChunkRunes = 2000

func isTerminator(r rune) bool {
	return r == '。' || r == '！' || r == '？' || r == '\n'
}

// Split breaks text into sentences on Japanese sentence-terminal punctuation
// and line breaks. Fragments shorter than minRunes (after trimming) are
// discarded; pass 0 to use MinSentenceRunes. The terminator itself is not
// part of the returned sentence.
func Split(text string, minRunes int) []string {
	if minRunes <= 0 {
		minRunes = MinSentenceRunes
	}

	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		if len([]rune(s)) >= minRunes {
			sentences = append(sentences, s)
		}
	}

	for _, r := range text {
		if isTerminator(r) {
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return sentences
}

// Chunk splits long text into pieces not exceeding maxRunes, accumulating
// whole sentences greedily. A sentence is never split across chunks, so a
// solitary sentence longer than maxRunes yields a chunk over the cap.
// Each sentence keeps its own terminator, and fragments are filtered with
// the same minRunes cutoff Split applies (0 for the default), so re-splitting
// a chunk reproduces the sentences it was built from. Text at or under the
// cap is returned as a single chunk unchanged.
func Chunk(text string, maxRunes, minRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = DefaultChunkRunes
	}
	if minRunes <= 0 {
		minRunes = MinSentenceRunes
	}
	if len([]rune(text)) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flushChunk := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		currentLen = 0
		if s != "" {
			chunks = append(chunks, s)
		}
	}

	var sentence strings.Builder
	endSentence := func(term rune) {
		s := strings.TrimSpace(sentence.String())
		sentence.Reset()
		if len([]rune(s)) < minRunes {
			return
		}
		if term != 0 {
			s += string(term)
		}
		sLen := len([]rune(s))
		if currentLen > 0 && currentLen+sLen > maxRunes {
			flushChunk()
		}
		current.WriteString(s)
		currentLen += sLen
	}

	for _, r := range text {
		if isTerminator(r) {
			endSentence(r)
			continue
		}
		sentence.WriteRune(r)
	}
	endSentence(0)
	flushChunk()

	return chunks
}
