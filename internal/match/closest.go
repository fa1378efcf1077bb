package match

// MinSimilarity is the score below which Closest makes no suggestion.
const MinSimilarity = 0.5

// Closest returns the candidate most similar to name. Ties keep the earlier
// candidate. It reports false when no candidate reaches MinSimilarity or
// name itself is a candidate.
func Closest(name string, candidates []string) (string, bool) {
	best, bestScore := "", 0.0

	for _, c := range candidates {
		if c == name {
			return "", false
		}

		if score := Similarity(name, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < MinSimilarity {
		return "", false
	}

	return best, true
}
