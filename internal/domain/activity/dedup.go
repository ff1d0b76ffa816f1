package activity

// Dedupe keeps the first suggestion for each place, preserving order.
// Places are compared by exact string equality.
func Dedupe(items []Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.Place]; ok {
			continue
		}
		seen[item.Place] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ExcludeSeen drops suggestions whose place was already shown.
func ExcludeSeen(items []Suggestion, seen []string) []Suggestion {
	if len(seen) == 0 {
		return items
	}
	index := make(map[string]struct{}, len(seen))
	for _, place := range seen {
		index[place] = struct{}{}
	}
	out := make([]Suggestion, 0, len(items))
	for _, item := range items {
		if _, ok := index[item.Place]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}
