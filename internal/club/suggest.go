package club

import (
	"sort"
	"strings"
	"unicode"
)

// minSimilarity is the lowest score a name needs to be suggested at all.
const minSimilarity = 0.4

// PlayerSuggestion is a player whose name resembles a lookup that found nothing.
type PlayerSuggestion struct {
	Player     Player
	Confidence float64
}

// SuggestPlayers ranks players by how closely their name resembles query and
// returns at most limit of them, best first.
func SuggestPlayers(query string, players []Player, limit int) []PlayerSuggestion {
	q := normalizeName(query)
	if q == "" || limit <= 0 {
		return nil
	}
	var suggestions []PlayerSuggestion
	for _, p := range players {
		name := normalizeName(p.Name)
		score := (stringSimilarity(q, name) + tokenSimilarity(q, name)) / 2
		if score >= minSimilarity {
			suggestions = append(suggestions, PlayerSuggestion{Player: p, Confidence: score})
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// normalizeName lowercases, drops everything but letters and collapses spaces.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// tokenSimilarity is the share of words in the longer name that have a close
// counterpart in the other, so "serena" still finds "Serena Williams".
func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	matched := 0
	for _, x := range ta {
		for _, y := range tb {
			if stringSimilarity(x, y) > 0.8 {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(max(len(ta), len(tb)))
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
