package extract

import "strings"

// placeKeywords are place-indicative words whose presence in the containing
// sentence raises confidence: administrative suffixes, transit and
// geographic nouns, religious and park facilities.
var placeKeywords = []string{
	"市", "県", "都", "府", "町", "村",
	"駅", "川", "山", "海", "湖",
	"公園", "寺", "神社",
}

// Score assigns a reliability score in [0,1] to a candidate within its
// sentence. Model candidates start at 0.5 plus a label bonus; pattern
// candidates start at their sub-strategy base. Length and keyword bonuses
// apply to both. Deterministic: no randomness, no external calls.
func Score(c Candidate, sentence string) float64 {
	var score float64
	if c.Source == SourcePattern {
		score = c.Base
	} else {
		score = 0.5
		switch c.Label {
		case LabelProvince, LabelCity, LabelGPE:
			score += 0.3
		case LabelLOC:
			score += 0.2
		case LabelFAC:
			score += 0.1
		}
	}

	if len([]rune(c.Text)) >= 3 {
		score += 0.1
	}

	// Checked once per sentence, not cumulative per keyword.
	for _, kw := range placeKeywords {
		if strings.Contains(sentence, kw) {
			score += 0.1
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}
