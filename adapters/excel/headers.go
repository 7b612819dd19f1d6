package excel

import "fmt"

// NormalizeHeaders names columns the way dataframe readers do: a blank header
// at position i becomes "Unnamed: i" and a repeated name gets ".<k>" appended,
// k counting earlier occurrences and skipping names that are already taken.
// Names are kept verbatim, surrounding whitespace included.
func NormalizeHeaders(raw []string) []string {
	names := make([]string, len(raw))
	for i, h := range raw {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}

	counts := make(map[string]int, len(names))
	for i, col := range names {
		cur := counts[col]
		for cur > 0 {
			counts[col] = cur + 1
			col = fmt.Sprintf("%s.%d", col, cur)
			cur = counts[col]
		}
		names[i] = col
		counts[col] = cur + 1
	}
	return names
}
