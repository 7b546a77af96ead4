package caption

import (
	"sort"
	"strconv"
	"strings"
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// numberWordAlternation lists number words longest first so regexp
// alternation never stops at a prefix ("seven" inside "seventeen").
func numberWordAlternation() string {
	words := make([]string, 0, len(numberWords))
	for w := range numberWords {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return strings.Join(words, "|")
}

// parseNumber converts a digit string or a spoken number phrase (including
// hyphenated and multi-word compounds like "twenty-three") to its value.
func parseNumber(phrase string) (int, bool) {
	phrase = strings.TrimSpace(strings.ToLower(phrase))
	if phrase == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(phrase); err == nil {
		return n, n > 0
	}

	total := 0
	for _, token := range strings.FieldsFunc(phrase, func(r rune) bool {
		return r == ' ' || r == '-'
	}) {
		value, ok := numberWords[token]
		if !ok {
			return 0, false
		}
		if value < 10 && total%10 != 0 {
			return 0, false
		}
		total += value
	}
	return total, total > 0
}
