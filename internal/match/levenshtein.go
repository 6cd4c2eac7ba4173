package match

// Levenshtein returns the edit distance between a and b counted in runes:
// the fewest single-rune insertions, deletions or substitutions turning
// one into the other.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	// row[i] holds the distance between ra[:i] and the prefix of rb seen so far
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag, row[i] = row[i], next
		}
	}

	return row[len(ra)]
}

// LevenshteinNormalized turns the edit distance into a similarity between
// 0 (nothing in common) and 1 (equal): 1 - distance / longer length.
func LevenshteinNormalized(a, b string) float64 {
	longer := max(len([]rune(a)), len([]rune(b)))
	if longer == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longer)
}
