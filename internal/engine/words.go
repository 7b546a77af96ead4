package engine

import (
	"strings"

	"github.com/pulpitworks/sermon-pipeline/internal/store"
)

// SpreadWords synthesizes evenly spaced word timestamps for a transcript
// whose source carries none (the OpenAI json response format omits word
// timings). Words are spread across durationSeconds in order.
func SpreadWords(text string, durationSeconds float64) []store.WordTimestamp {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	step := durationSeconds / float64(len(fields))
	words := make([]store.WordTimestamp, len(fields))
	for i, word := range fields {
		words[i] = store.WordTimestamp{
			Word:  word,
			Start: float64(i) * step,
			End:   float64(i+1) * step,
		}
	}
	return words
}
