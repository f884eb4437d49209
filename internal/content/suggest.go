package content

import (
	"strings"

	"techflow-careers/internal/models"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is the largest share of the title that may differ for
// it to be offered as a suggestion.
const maxSuggestDistance = 0.4

// Suggest returns the career title closest to q, compared case-insensitively
// against whole titles and against each word of a title. It reports false
// when nothing is close enough.
func Suggest(q string, careers []models.Career) (string, bool) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return "", false
	}

	best, bestScore := "", 1.0
	for _, c := range careers {
		title := strings.ToLower(c.Title)
		candidates := append([]string{title}, strings.Fields(title)...)
		for _, cand := range candidates {
			score := distance(q, cand)
			if score < bestScore {
				best, bestScore = c.Title, score
			}
		}
	}
	if best == "" || bestScore > maxSuggestDistance || strings.EqualFold(best, q) {
		return "", false
	}
	return best, true
}

func distance(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
