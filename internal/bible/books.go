// Package bible carries the canon data the pipeline needs: book names,
// common abbreviations, and per-book vocabulary used to steer speech
// recognition toward biblical terms.
package bible

import (
	"sort"
	"strings"
)

// Books lists the 66 canonical book names in canon order.
var Books = []string{
	"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy",
	"Joshua", "Judges", "Ruth", "1 Samuel", "2 Samuel",
	"1 Kings", "2 Kings", "1 Chronicles", "2 Chronicles", "Ezra",
	"Nehemiah", "Esther", "Job", "Psalms", "Proverbs",
	"Ecclesiastes", "Song of Solomon", "Isaiah", "Jeremiah", "Lamentations",
	"Ezekiel", "Daniel", "Hosea", "Joel", "Amos",
	"Obadiah", "Jonah", "Micah", "Nahum", "Habakkuk",
	"Zephaniah", "Haggai", "Zechariah", "Malachi",
	"Matthew", "Mark", "Luke", "John", "Acts",
	"Romans", "1 Corinthians", "2 Corinthians", "Galatians", "Ephesians",
	"Philippians", "Colossians", "1 Thessalonians", "2 Thessalonians", "1 Timothy",
	"2 Timothy", "Titus", "Philemon", "Hebrews", "James",
	"1 Peter", "2 Peter", "1 John", "2 John", "3 John",
	"Jude", "Revelation",
}

// Abbreviations maps common written abbreviations to canonical book names.
// Keys are lowercase without trailing periods.
var Abbreviations = map[string]string{
	"gen":     "Genesis",
	"ex":      "Exodus",
	"exod":    "Exodus",
	"lev":     "Leviticus",
	"num":     "Numbers",
	"deut":    "Deuteronomy",
	"josh":    "Joshua",
	"judg":    "Judges",
	"1 sam":   "1 Samuel",
	"2 sam":   "2 Samuel",
	"1 kgs":   "1 Kings",
	"2 kgs":   "2 Kings",
	"1 chr":   "1 Chronicles",
	"2 chr":   "2 Chronicles",
	"neh":     "Nehemiah",
	"esth":    "Esther",
	"ps":      "Psalms",
	"psa":     "Psalms",
	"psalm":   "Psalms",
	"prov":    "Proverbs",
	"eccl":    "Ecclesiastes",
	"song":    "Song of Solomon",
	"isa":     "Isaiah",
	"jer":     "Jeremiah",
	"lam":     "Lamentations",
	"ezek":    "Ezekiel",
	"dan":     "Daniel",
	"hos":     "Hosea",
	"obad":    "Obadiah",
	"jon":     "Jonah",
	"mic":     "Micah",
	"nah":     "Nahum",
	"hab":     "Habakkuk",
	"zeph":    "Zephaniah",
	"hag":     "Haggai",
	"zech":    "Zechariah",
	"mal":     "Malachi",
	"matt":    "Matthew",
	"mt":      "Matthew",
	"mk":      "Mark",
	"lk":      "Luke",
	"jn":      "John",
	"rom":     "Romans",
	"1 cor":   "1 Corinthians",
	"2 cor":   "2 Corinthians",
	"gal":     "Galatians",
	"eph":     "Ephesians",
	"phil":    "Philippians",
	"col":     "Colossians",
	"1 thess": "1 Thessalonians",
	"2 thess": "2 Thessalonians",
	"1 tim":   "1 Timothy",
	"2 tim":   "2 Timothy",
	"tit":     "Titus",
	"phlm":    "Philemon",
	"heb":     "Hebrews",
	"jas":     "James",
	"1 pet":   "1 Peter",
	"2 pet":   "2 Peter",
	"rev":     "Revelation",
}

var canonicalSet = func() map[string]string {
	set := make(map[string]string, len(Books))
	for _, book := range Books {
		set[strings.ToLower(book)] = book
	}
	return set
}()

// Canonical resolves a book name or abbreviation to its canonical form.
// Matching is case-insensitive and tolerates a trailing period on
// abbreviations.
func Canonical(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if book, ok := canonicalSet[key]; ok {
		return book, true
	}
	if book, ok := Abbreviations[key]; ok {
		return book, true
	}
	return "", false
}

// DetectBooks returns the canonical books mentioned in free text, in order of
// first appearance. A bare name preceded by a book number ("John" inside
// "1 John") does not register a second hit.
func DetectBooks(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]int)

	for _, book := range Books {
		needle := strings.ToLower(book)
		idx := indexWord(lower, needle, !strings.ContainsAny(needle, "123"))
		if idx >= 0 {
			found[book] = idx
		}
	}

	books := make([]string, 0, len(found))
	for book := range found {
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool { return found[books[i]] < found[books[j]] })
	return books
}

// indexWord finds needle in haystack at word boundaries. When rejectNumbered
// is set, occurrences preceded by a book number ("1 john") are skipped.
func indexWord(haystack, needle string, rejectNumbered bool) int {
	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(needle)
		startOK := idx == 0 || !isWordChar(haystack[idx-1])
		endOK := end == len(haystack) || !isWordChar(haystack[end])
		if rejectNumbered && idx >= 2 && haystack[idx-1] == ' ' && isDigit(haystack[idx-2]) {
			startOK = false
		}
		if startOK && endOK {
			return idx
		}
		from = idx + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
