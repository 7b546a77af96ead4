// Package correct fixes systematic speech-recognition misfires on biblical
// vocabulary using a static confusion map. All functions fail soft: input
// that matches nothing is returned unchanged.
package correct

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pulpitworks/sermon-pipeline/internal/store"
)

// confusionMap maps known misrecognized phrases (normalized form) to the
// correct biblical term. Matching is case-insensitive.
var confusionMap = map[string]string{
	"have a cook":         "Habakkuk",
	"have a kook":         "Habakkuk",
	"haba cook":           "Habakkuk",
	"a bad eye a":         "Obadiah",
	"oh bad eye a":        "Obadiah",
	"no hum":              "Nahum",
	"nay hum":             "Nahum",
	"zef an eye a":        "Zephaniah",
	"hag eye":             "Haggai",
	"hag a eye":           "Haggai",
	"fill lemon":          "Philemon",
	"file lemon":          "Philemon",
	"ecclesiast ease":     "Ecclesiastes",
	"zack a rye a":        "Zechariah",
	"mal a kai":           "Malachi",
	"tight us":            "Titus",
	"fill up ians":        "Philippians",
	"call ossians":        "Colossians",
	"first the salonians": "First Thessalonians",
}

// singleWordMap corrects lone misspelled book names. These are unambiguous
// enough to apply without nearby verse context.
var singleWordMap = map[string]string{
	"habakuk":   "Habakkuk",
	"habbakuk":  "Habakkuk",
	"filemon":   "Philemon",
	"philemon":  "Philemon",
	"zefaniah":  "Zephaniah",
	"zechariah": "Zechariah",
	"nahum":     "Nahum",
	"obadiah":   "Obadiah",
	"hagai":     "Haggai",
	"malachi":   "Malachi",
}

// Overlay records a single multi-word substitution anchored to a span of
// word timestamps.
type Overlay struct {
	StartWordIndex int
	WordCount      int
	CorrectedText  string
	OriginalText   string
	Confidence     float64
}

var (
	punctuation = regexp.MustCompile(`[^\w\s']`)
	verseRef    = regexp.MustCompile(`\d+:\d+`)
)

// Normalize lowercases text, strips punctuation, and trims whitespace.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	stripped := punctuation.ReplaceAllString(lowered, "")
	return strings.TrimSpace(stripped)
}

// HasVerseContext reports whether a chapter:verse pattern or a literal
// "chapter N" appears within windowSize words of index.
func HasVerseContext(words []string, index, windowSize int) bool {
	lo := index - windowSize
	if lo < 0 {
		lo = 0
	}
	hi := index + windowSize
	if hi > len(words)-1 {
		hi = len(words) - 1
	}
	for i := lo; i <= hi; i++ {
		if verseRef.MatchString(words[i]) {
			return true
		}
		if strings.EqualFold(strings.Trim(words[i], ".,;:!?"), "chapter") &&
			i+1 < len(words) && hasLeadingDigit(words[i+1]) {
			return true
		}
	}
	return false
}

// NormalizeForParsing unconditionally replaces every known confusion phrase
// with its correct term. Intended as a pre-pass before reference parsing;
// text without confusions is returned unchanged.
func NormalizeForParsing(text string) string {
	result := text
	for _, phrase := range confusionPhrases() {
		replacement := confusionMap[phrase]
		result = replacePhraseFold(result, phrase, replacement)
	}
	return result
}

// FindCorrections scans for confusion-map phrases aligned to word-timestamp
// spans. With requireContext set, a multi-word correction is only accepted
// when verse context appears near the phrase, which keeps aggressive
// replacements out of ordinary speech. Single-word corrections apply
// regardless of context.
func FindCorrections(text string, words []store.WordTimestamp, requireContext bool) []Overlay {
	if len(words) == 0 {
		return nil
	}

	normalized := make([]string, len(words))
	rawWords := make([]string, len(words))
	for i, w := range words {
		normalized[i] = Normalize(w.Word)
		rawWords[i] = w.Word
	}

	var overlays []Overlay
	claimed := make([]bool, len(words))

	for _, phrase := range confusionPhrases() {
		parts := strings.Fields(phrase)
		for i := 0; i+len(parts) <= len(words); i++ {
			if spanClaimed(claimed, i, len(parts)) {
				continue
			}
			if !matchSpan(normalized, i, parts) {
				continue
			}
			if requireContext && !HasVerseContext(rawWords, i+len(parts)-1, 5) {
				continue
			}
			overlays = append(overlays, Overlay{
				StartWordIndex: i,
				WordCount:      len(parts),
				CorrectedText:  confusionMap[phrase],
				OriginalText:   strings.Join(rawWords[i:i+len(parts)], " "),
				Confidence:     0.9,
			})
			claimSpan(claimed, i, len(parts))
		}
	}

	for i, norm := range normalized {
		if claimed[i] {
			continue
		}
		corrected, ok := singleWordMap[norm]
		if !ok || rawWords[i] == corrected {
			continue
		}
		overlays = append(overlays, Overlay{
			StartWordIndex: i,
			WordCount:      1,
			CorrectedText:  corrected,
			OriginalText:   rawWords[i],
			Confidence:     0.95,
		})
		claimed[i] = true
	}

	sort.Slice(overlays, func(i, j int) bool {
		return overlays[i].StartWordIndex < overlays[j].StartWordIndex
	})
	return overlays
}

// ApplyCorrections replaces each overlay's word span with its corrected text
// and reassembles the full string. Unaffected words keep their order; empty
// input or no corrections produce the identity result.
func ApplyCorrections(words []store.WordTimestamp, corrections []Overlay) string {
	if len(words) == 0 {
		return ""
	}

	byStart := make(map[int]Overlay, len(corrections))
	for _, c := range corrections {
		byStart[c.StartWordIndex] = c
	}

	var parts []string
	for i := 0; i < len(words); {
		if c, ok := byStart[i]; ok && c.WordCount > 0 {
			parts = append(parts, c.CorrectedText)
			i += c.WordCount
			continue
		}
		parts = append(parts, words[i].Word)
		i++
	}
	return strings.Join(parts, " ")
}

func confusionPhrases() []string {
	phrases := make([]string, 0, len(confusionMap))
	for phrase := range confusionMap {
		phrases = append(phrases, phrase)
	}
	// Longest phrase first so "hag a eye" wins over "hag eye" on overlap.
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}

func matchSpan(normalized []string, start int, parts []string) bool {
	for k, part := range parts {
		if normalized[start+k] != part {
			return false
		}
	}
	return true
}

func spanClaimed(claimed []bool, start, count int) bool {
	for i := start; i < start+count; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func claimSpan(claimed []bool, start, count int) {
	for i := start; i < start+count; i++ {
		claimed[i] = true
	}
}

func hasLeadingDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// replacePhraseFold replaces every case-insensitive occurrence of phrase in
// text, respecting word boundaries.
func replacePhraseFold(text, phrase, replacement string) string {
	lower := strings.ToLower(text)
	needle := strings.ToLower(phrase)

	var sb strings.Builder
	from := 0
	for {
		idx := strings.Index(lower[from:], needle)
		if idx < 0 {
			sb.WriteString(text[from:])
			break
		}
		idx += from
		end := idx + len(needle)
		startOK := idx == 0 || !isWordByte(lower[idx-1])
		endOK := end == len(lower) || !isWordByte(lower[end])
		if !startOK || !endOK {
			sb.WriteString(text[from : idx+1])
			from = idx + 1
			continue
		}
		sb.WriteString(text[from:idx])
		sb.WriteString(replacement)
		from = end
	}
	return sb.String()
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
