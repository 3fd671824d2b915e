package service

import "strings"

// Lexicon-based sentiment analysis. Intentionally simple: the score only
// nudges rubric evaluation and the no-rubric fallback, so a word-match
// heuristic is enough.

var positiveWords = []string{
	"great", "excited", "confident", "happy", "love", "passion", "enjoy",
	"proud", "optimistic", "enthusiastic", "success", "grateful",
	"accomplished", "improved",
}

var negativeWords = []string{
	"difficult", "stress", "hard", "problem", "fail", "worry", "concern",
	"issue", "challenge", "struggle", "conflict", "pressure", "risk", "delay",
}

// SentimentScore returns a normalized sentiment in [-1, 1] for the text.
// Each positive lexicon hit adds 1, each negative hit subtracts 1, and the
// sum is divided by the token count.
func SentimentScore(text string) float64 {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return 0
	}

	score := 0.0
	for _, tok := range tokens {
		for _, w := range positiveWords {
			if strings.Contains(tok, w) {
				score++
				break
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(tok, w) {
				score--
				break
			}
		}
	}

	return clamp(score/float64(len(tokens)), -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
