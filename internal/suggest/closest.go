// Package suggest implements the "did you mean" name-suggestion
// collaborator used by configuration error messages.
package suggest

// maxDistance is the rejection threshold: candidates farther than this
// are not suggested at all.
const maxDistance = 7

// weighted edit costs: a transposition is free, substitution costs more
// than insertion, and deletion costs most of all.
const (
	costSwap   = 0
	costSub    = 2
	costInsert = 1
	costDelete = 3
)

// Closest returns the candidate closest to target by weighted
// Damerau-Levenshtein distance (transpositions free, substitutions cost 2,
// insertions cost 1, deletions cost 3), or ("", false) if every candidate's
// distance exceeds maxDistance.
//
// Common approximate-string-matching libraries only expose unit-cost edit
// distances; the asymmetric weighting here has no off-the-shelf
// implementation, so this is a direct dynamic-programming one.
func Closest(target string, candidates []string) (string, bool) {
	best := ""
	bestDist := maxDistance + 1

	for _, candidate := range candidates {
		d := weightedDamerauLevenshtein(target, candidate)
		if d < bestDist {
			bestDist = d
			best = candidate
		}
	}

	if bestDist > maxDistance {
		return "", false
	}
	return best, true
}

// weightedDamerauLevenshtein computes the edit distance between a and b
// using the costs above, allowing adjacent-transposition (swap) moves.
func weightedDamerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)

	// d[i][j] = distance between a[:i] and b[:j]
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
	}
	for i := 0; i <= n; i++ {
		d[i][0] = i * costDelete
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j * costInsert
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			subCost := costSub
			if ra[i-1] == rb[j-1] {
				subCost = 0
			}

			best := d[i-1][j] + costDelete   // delete from a
			if v := d[i][j-1] + costInsert; v < best {
				best = v // insert into a
			}
			if v := d[i-1][j-1] + subCost; v < best {
				best = v // substitute (or match)
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if v := d[i-2][j-2] + costSwap; v < best {
					best = v // transpose
				}
			}

			d[i][j] = best
		}
	}

	return d[n][m]
}
