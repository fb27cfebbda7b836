package extract

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeRecognizer finds place names with the kagome morphological analyzer.
// The IPA dictionary tags region proper nouns (名詞/固有名詞/地域) and region
// suffixes (名詞/接尾/地域, e.g. 市, 県, 駅); adjacent tokens of those classes
// are merged into a single span.
type KagomeRecognizer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeRecognizer builds a tokenizer over the embedded IPA dictionary.
func NewKagomeRecognizer() (*KagomeRecognizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &KagomeRecognizer{t: t}, nil
}

// Method implements Recognizer.
func (r *KagomeRecognizer) Method() string { return "kagome_ner" }

// IPA feature layout:
// 0: POS, 1: sub-POS 1, 2: sub-POS 2, 3: sub-POS 3,
// 4: conjugation type, 5: conjugation form, 6: base form, 7: reading, 8: pron.

func isRegionProper(features []string) bool {
	return len(features) > 2 && features[0] == "名詞" &&
		features[1] == "固有名詞" && features[2] == "地域"
}

func isRegionSuffix(features []string) bool {
	return len(features) > 2 && features[0] == "名詞" &&
		features[1] == "接尾" && features[2] == "地域"
}

func isCountry(features []string) bool {
	return len(features) > 3 && features[3] == "国"
}

// labelForSpan classifies a merged span by its trailing rune, falling back
// to the sub-POS country tag and then to the generic location label.
func labelForSpan(text string, country bool) string {
	rs := []rune(text)
	switch rs[len(rs)-1] {
	case '都', '道', '府', '県':
		return LabelProvince
	case '市', '区', '町', '村', '郡':
		return LabelCity
	case '駅', '寺', '社', '宮', '園', '橋':
		return LabelFAC
	}
	if country {
		return LabelGPE
	}
	return LabelLOC
}

// Recognize implements Recognizer.
func (r *KagomeRecognizer) Recognize(sentence string) []Candidate {
	tokens := r.t.Tokenize(sentence)

	var candidates []Candidate
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		if !isRegionProper(tok.Features()) {
			continue
		}

		var span strings.Builder
		span.WriteString(tok.Surface)
		start := tok.Start
		end := tok.End
		country := isCountry(tok.Features())

		// Extend over adjacent region tokens; a suffix closes the span.
		j := i + 1
		for j < len(tokens) {
			next := tokens[j]
			if next.Class == tokenizer.DUMMY {
				break
			}
			f := next.Features()
			if isRegionSuffix(f) {
				span.WriteString(next.Surface)
				end = next.End
				j++
				break
			}
			if !isRegionProper(f) {
				break
			}
			span.WriteString(next.Surface)
			end = next.End
			country = country || isCountry(f)
			j++
		}
		i = j - 1

		text := span.String()
		if !validPlaceName(text) {
			continue
		}
		candidates = append(candidates, Candidate{
			Text:   text,
			Label:  labelForSpan(text, country),
			Start:  start,
			End:    end,
			Source: SourceModel,
		})
	}
	return candidates
}
