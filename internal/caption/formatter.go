// Package caption normalizes scripture references in live caption text,
// rewriting recognizable references to canonical "Book C:V" form while
// leaving everything else untouched. A reference split across two caption
// segments is handled by the explicit carry state threaded through
// FormatWithCarry.
package caption

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pulpitworks/sermon-pipeline/internal/bible"
)

// Pending carries a partially spoken reference across one caption boundary.
// Chapter is nil while the chapter number itself is still awaited. The caller
// threads it into the next FormatWithCarry call; an unconsumed Pending is
// dropped, never retried.
type Pending struct {
	Book          string
	CanonicalBook string
	Chapter       *int
}

var (
	bookAlt = bookAlternation()
	numPat  = `(?:\d{1,3}|(?:` + numberWordAlternation() + `)(?:[\s-](?:` + numberWordAlternation() + `))*)`

	reChapterVerse = regexp.MustCompile(`(?i)\b(` + bookAlt + `)\.?\s+chapter\s+(` + numPat + `)\s*,?\s+verse\s+(` + numPat + `)\b`)
	reDigitVerse   = regexp.MustCompile(`(?i)\b(` + bookAlt + `)\.?\s+(\d{1,3})\s*,?\s+verse\s+(` + numPat + `)\b`)
	reBookDigits   = regexp.MustCompile(`(?i)\b(` + bookAlt + `)\.?\s+(\d{1,3})\s+(\d{1,3})\b`)
	reBookColon    = regexp.MustCompile(`(?i)\b(` + bookAlt + `)\.?\s+(\d{1,3}):(\d{1,3})\b`)

	reTrailChapterNum = regexp.MustCompile(`(?i)\b(` + bookAlt + `)\s+chapter\s+(` + numPat + `)[\s.!?,;:]*$`)
	reTrailChapter    = regexp.MustCompile(`(?i)\b(` + bookAlt + `)\s+chapter[\s.!?,;:]*$`)

	reLeadVerse  = regexp.MustCompile(`(?i)^\s*(?:(?:and|now|then)[\s,]+)?verse\s+(` + numPat + `)\b`)
	reLeadNumber = regexp.MustCompile(`(?i)^\s*(?:(?:and|now|then)[\s,]+)?(` + numPat + `)\b`)
	reLeadOnly   = regexp.MustCompile(`^[\s.!?,;:]*$`)
)

// bookAlternation renders every canonical book name and abbreviation as a
// regexp alternation, longest first so "1 John" wins over "John".
func bookAlternation() string {
	names := make([]string, 0, len(bible.Books)+len(bible.Abbreviations))
	names = append(names, bible.Books...)
	for abbr := range bible.Abbreviations {
		names = append(names, abbr)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = regexp.QuoteMeta(name)
	}
	return strings.Join(escaped, "|")
}

// Format rewrites recognizable scripture references in text to canonical
// "Book C:V" form. Anything it cannot positively identify as a reference is
// left unchanged: a bare "Book N" with no verse stays as spoken, so ordinary
// numeric mentions ("mark three items on the list") survive intact. Format is
// idempotent.
func Format(text string) string {
	out := replaceRef(text, reChapterVerse)
	out = replaceRef(out, reDigitVerse)
	out = replaceRef(out, reBookDigits)
	out = replaceRef(out, reBookColon)
	return out
}

// replaceRef rewrites every match of re (book, chapter, verse submatches)
// with the canonical reference. Matches whose numbers do not parse are left
// untouched.
func replaceRef(text string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		sub := re.FindStringSubmatch(match)
		book, ok := bible.Canonical(sub[1])
		if !ok {
			return match
		}
		chapter, ok := parseNumber(sub[2])
		if !ok {
			return match
		}
		verse, ok := parseNumber(sub[3])
		if !ok {
			return match
		}
		return book + " " + strconv.Itoa(chapter) + ":" + strconv.Itoa(verse)
	})
}

// FormatWithCarry normalizes one caption segment, consuming a Pending state
// produced by the previous segment and handing back a new one when this
// segment itself ends mid-reference.
//
// Transitions: a segment ending "Book chapter N" yields Pending{Chapter: &N};
// ending just "Book chapter" yields Pending{Chapter: nil}. A following
// segment beginning with the missing piece (optionally after a connective
// like "And") completes the reference in place. A segment that does not
// continue the expected pattern drops the state and is formatted on its own.
func FormatWithCarry(text string, pending *Pending) (string, *Pending) {
	text, pending = consumePending(text, pending)
	if pending != nil {
		// Pending advanced within this segment; it stays live for the next.
		return text, pending
	}

	out := Format(text)
	return out, trailingPending(out)
}

// consumePending tries to complete a carried reference at the head of the
// segment. It returns the (possibly rewritten) text and the surviving pending
// state: nil when consumed or dropped, non-nil only when the carry advanced
// by its chapter number and now awaits the verse.
func consumePending(text string, pending *Pending) (string, *Pending) {
	if pending == nil {
		return text, nil
	}

	if pending.Chapter != nil {
		loc := reLeadVerse.FindStringSubmatchIndex(text)
		if loc == nil {
			return text, nil
		}
		verse, ok := parseNumber(text[loc[2]:loc[3]])
		if !ok {
			return text, nil
		}
		ref := pending.CanonicalBook + " " + strconv.Itoa(*pending.Chapter) + ":" + strconv.Itoa(verse)
		return ref + text[loc[1]:], nil
	}

	loc := reLeadNumber.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, nil
	}
	chapter, ok := parseNumber(text[loc[2]:loc[3]])
	if !ok {
		return text, nil
	}
	rest := text[loc[1]:]

	if verseLoc := reLeadVerse.FindStringSubmatchIndex(rest); verseLoc != nil {
		verse, ok := parseNumber(rest[verseLoc[2]:verseLoc[3]])
		if ok {
			ref := pending.CanonicalBook + " " + strconv.Itoa(chapter) + ":" + strconv.Itoa(verse)
			return ref + rest[verseLoc[1]:], nil
		}
	}
	if reLeadOnly.MatchString(rest) {
		// Chapter arrived, verse still outstanding.
		return text, &Pending{
			Book:          pending.Book,
			CanonicalBook: pending.CanonicalBook,
			Chapter:       &chapter,
		}
	}
	return text, nil
}

// trailingPending inspects a formatted segment for a reference left hanging
// at its end.
func trailingPending(text string) *Pending {
	if sub := reTrailChapterNum.FindStringSubmatch(text); sub != nil {
		if book, ok := bible.Canonical(sub[1]); ok {
			if chapter, ok := parseNumber(sub[2]); ok {
				return &Pending{Book: sub[1], CanonicalBook: book, Chapter: &chapter}
			}
		}
	}
	if sub := reTrailChapter.FindStringSubmatch(text); sub != nil {
		if book, ok := bible.Canonical(sub[1]); ok {
			return &Pending{Book: sub[1], CanonicalBook: book}
		}
	}
	return nil
}
