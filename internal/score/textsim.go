package score

import "strings"

// JaccardSimilarity returns the word-set Jaccard index of two texts in
// [0,1]. Tokenization is lowercase whitespace splitting with basic
// punctuation trimming; good enough for comparing commenter vocabularies.
func JaccardSimilarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:()[]\"'")
		if len(w) >= 3 {
			set[w] = true
		}
	}
	return set
}
