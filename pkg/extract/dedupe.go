package extract

// Dedupe collapses mentions sharing (PlaceName, Sentence), keeping the
// first occurrence and preserving order.
func Dedupe(mentions []Mention) []Mention {
	type key struct{ place, sentence string }
	seen := make(map[key]bool, len(mentions))

	var out []Mention
	for _, m := range mentions {
		k := key{m.PlaceName, m.Sentence}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	return out
}
