package extract

import "unicode"

// exclusionSet collects spans that are grammatically nominal but are not
// place names in literary prose: calendar and temporal words, cardinal
// directions, rooms of a house, body parts, and bare size/age adjectival
// nouns. Both recognizer strategies reject these.
var exclusionSet = map[string]bool{}

func init() {
	for _, w := range []string{
		// calendar, time of day
		"日", "月", "火", "水", "木", "金", "土", "年", "時", "分", "秒",
		"春", "夏", "秋", "冬", "朝", "昼", "夜", "晩", "夕方",
		"今日", "明日", "昨日", "今年", "去年", "来年",
		// relative position, cardinal directions
		"今", "昨", "明", "前", "後", "間", "中", "内", "外", "上", "下",
		"左", "右", "東", "西", "南", "北",
		// generic size/state prefixes
		"新", "旧", "大", "小", "高", "低",
		// rooms and parts of a house
		"家", "庭", "部屋", "階段", "廊下", "台所", "寝室", "書斎", "玄関", "窓",
		// body parts
		"心", "頭", "手", "足", "目", "耳", "口", "顔", "体", "身体",
	} {
		exclusionSet[w] = true
	}
}

func isDigitRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= '０' && r <= '９')
}

func isHiragana(r rune) bool {
	return unicode.In(r, unicode.Hiragana)
}

// validPlaceName applies the candidate validity filter shared by both
// recognizer strategies: spans under 2 runes, purely numeric spans,
// 2-rune hiragana-only spans, and exclusion-set members are rejected.
func validPlaceName(name string) bool {
	rs := []rune(name)
	if len(rs) < 2 {
		return false
	}
	if exclusionSet[name] {
		return false
	}

	allDigits := true
	allHiragana := true
	for _, r := range rs {
		if !isDigitRune(r) {
			allDigits = false
		}
		if !isHiragana(r) {
			allHiragana = false
		}
	}
	if allDigits {
		return false
	}
	if allHiragana && len(rs) <= 2 {
		return false
	}
	return true
}
