package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// prefectures is the enumerated list of first-level administrative regions.
var prefectures = []string{
	"北海道", "青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県",
	"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県",
	"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県", "岐阜県",
	"静岡県", "愛知県", "三重県", "滋賀県", "京都府", "大阪府", "兵庫県",
	"奈良県", "和歌山県", "鳥取県", "島根県", "岡山県", "広島県", "山口県",
	"徳島県", "香川県", "愛媛県", "高知県", "福岡県", "佐賀県", "長崎県",
	"熊本県", "大分県", "宮崎県", "鹿児島県", "沖縄県",
}

// famousPlaces raises recall when no trained recognizer is available:
// capital-region landmarks and historic districts that carry no
// administrative suffix.
var famousPlaces = []string{
	"銀座", "新宿", "渋谷", "上野", "浅草", "品川", "池袋", "大宮",
	"横浜", "川崎", "神戸", "名古屋", "仙台", "札幌", "金沢",
	"鎌倉", "日光", "箱根", "熱海", "軽井沢", "道後温泉",
}

// Sub-strategy confidence bases. The curated lists are near-unambiguous;
// the bare suffix regexes match common nouns too and sit lower.
const (
	gazetteerBase = 0.8
	suffixBase    = 0.6
)

func prefectureStems() []string {
	var stems []string
	for _, p := range prefectures {
		if p == "北海道" {
			continue
		}
		// Drop exactly the one suffix rune. A cutset trim would also eat
		// suffix runes inside the name (京都府 must stem to 京都, not 京).
		rs := []rune(p)
		stems = append(stems, string(rs[:len(rs)-1]))
	}
	return stems
}

func alternation(words []string) *regexp.Regexp {
	sorted := append([]string(nil), words...)
	// Longest first so 和歌山県 wins over 和歌山.
	sort.Slice(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	for i, w := range sorted {
		sorted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(strings.Join(sorted, "|"))
}

type patternRule struct {
	re    *regexp.Regexp
	label string
	base  float64
}

// PatternRecognizer is the fallback strategy used when no morphological
// recognizer is available: prefectures with and without their suffix,
// municipality suffix templates, and a curated toponym allowlist.
type PatternRecognizer struct {
	rules []patternRule
}

// NewPatternRecognizer compiles the gazetteer and suffix rules.
func NewPatternRecognizer() *PatternRecognizer {
	return &PatternRecognizer{
		rules: []patternRule{
			{alternation(append(append([]string(nil), prefectures...), prefectureStems()...)), LabelProvince, gazetteerBase},
			{alternation(famousPlaces), LabelLOC, gazetteerBase},
			{regexp.MustCompile(`[\p{Han}]{1,5}[市区町村]`), LabelCity, suffixBase},
			{regexp.MustCompile(`[\p{Han}]{2,6}郡`), LabelCity, suffixBase},
		},
	}
}

// Method implements Recognizer.
func (r *PatternRecognizer) Method() string { return "regex_pattern" }

// Recognize implements Recognizer.
func (r *PatternRecognizer) Recognize(sentence string) []Candidate {
	type span struct{ start, end int }
	seen := make(map[span]bool)

	var candidates []Candidate
	for _, rule := range r.rules {
		for _, loc := range rule.re.FindAllStringIndex(sentence, -1) {
			text := sentence[loc[0]:loc[1]]
			if !validPlaceName(text) {
				continue
			}
			start := utf8.RuneCountInString(sentence[:loc[0]])
			end := start + utf8.RuneCountInString(text)
			if seen[span{start, end}] {
				continue
			}
			seen[span{start, end}] = true
			candidates = append(candidates, Candidate{
				Text:   text,
				Label:  rule.label,
				Start:  start,
				End:    end,
				Source: SourcePattern,
				Base:   rule.base,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End < candidates[j].End
	})
	return candidates
}
