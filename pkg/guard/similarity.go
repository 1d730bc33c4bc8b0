package guard

import "strings"

// Similarity returns a normalized edit-distance ratio in [0,1] between two
// strings, case-insensitive. Identical strings score 1; strings with nothing
// in common score 0.
func Similarity(a, b string) float64 {
	s1 := strings.ToLower(a)
	s2 := strings.ToLower(b)
	if s1 == s2 {
		return 1
	}

	longer, shorter := []rune(s1), []rune(s2)
	if len(longer) < len(shorter) {
		longer, shorter = shorter, longer
	}
	if len(longer) == 0 {
		return 1
	}

	dist := levenshtein(longer, shorter)
	return float64(len(longer)-dist) / float64(len(longer))
}

// levenshtein computes edit distance with a single rolling cost row.
func levenshtein(s1, s2 []rune) int {
	costs := make([]int, len(s1)+1)
	for k := range costs {
		costs[k] = k
	}
	for i := 1; i <= len(s2); i++ {
		prev := i
		for j := 1; j <= len(s1); j++ {
			val := costs[j] + 1
			if prev+1 < val {
				val = prev + 1
			}
			sub := costs[j-1]
			if s1[j-1] != s2[i-1] {
				sub++
			}
			if sub < val {
				val = sub
			}
			costs[j-1] = prev
			prev = val
		}
		costs[len(s1)] = prev
	}
	return costs[len(s1)]
}
