package pipeline

import "sort"

// Rank sorts ideas by score, highest first, keeping input order for ties, and
// keeps at most TopN. The input slice is not modified.
func Rank(ideas []GeneratedIdea) []GeneratedIdea {
	out := append([]GeneratedIdea(nil), ideas...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}
