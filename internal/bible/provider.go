package bible

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultGlossary is emitted when a budget-constrained glossary would be too
// short to be useful.
const DefaultGlossary = "This sermon may reference books of the Bible such as " +
	"Habakkuk, Zephaniah, Haggai, Philemon, Ecclesiastes, Nahum, Obadiah, " +
	"Zechariah, Malachi, and Titus."

// minUsefulGlossaryChars is the floor below which a truncated glossary does
// more harm than the static default.
const minUsefulGlossaryChars = 40

// Provider supplies per-book vocabulary for recognition glossaries. Overlays
// loaded at construction time extend the built-in canon vocabulary. The zero
// overlay Provider is ready to use.
type Provider struct {
	overlay map[string][]string
}

// NewProvider returns a Provider backed by the built-in vocabulary.
func NewProvider() *Provider {
	return &Provider{}
}

// overlayDocument is the YAML shape of a vocabulary overlay file: canonical
// book names mapping to extra terms.
type overlayDocument struct {
	Books map[string][]string `yaml:"books"`
}

// LoadOverlay merges additional per-book terms from a YAML document. Unknown
// book names are rejected so typos do not silently drop vocabulary.
func (p *Provider) LoadOverlay(r io.Reader) error {
	var doc overlayDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("bible: decode vocabulary overlay: %w", err)
	}
	for name, terms := range doc.Books {
		book, ok := Canonical(name)
		if !ok {
			return fmt.Errorf("bible: overlay references unknown book %q", name)
		}
		if p.overlay == nil {
			p.overlay = make(map[string][]string)
		}
		p.overlay[book] = append(p.overlay[book], terms...)
	}
	return nil
}

// terms returns built-in plus overlay vocabulary for a book.
func (p *Provider) terms(book string) []string {
	base := bookVocabulary[book]
	extra := p.overlay[book]
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}

// ContextualTerms returns a deduplicated, alphabetically sorted vocabulary
// list for the detected books: the baseline hard-to-transcribe book names
// plus every detected book's name and terms, capped at maxTerms.
func (p *Provider) ContextualTerms(detectedBooks []string, maxTerms int) []string {
	seen := make(map[string]struct{})
	var terms []string
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, term := range baselineTerms {
		add(term)
	}
	for _, book := range detectedBooks {
		add(book)
		for _, term := range p.terms(book) {
			add(term)
		}
	}

	sort.Strings(terms)
	if maxTerms > 0 && len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}
	return terms
}

// GlossaryPrompt renders a natural-language glossary for the detected books,
// constrained to budgetChars. Budgets too small to carry a useful glossary
// fall back to DefaultGlossary rather than emitting a truncated fragment.
func (p *Provider) GlossaryPrompt(detectedBooks []string, budgetChars int) string {
	if budgetChars < minUsefulGlossaryChars {
		return DefaultGlossary
	}

	var sb strings.Builder
	if len(detectedBooks) > 0 {
		sb.WriteString("This sermon is about ")
		sb.WriteString(joinNatural(detectedBooks))
		sb.WriteString(". ")
	}
	sb.WriteString("Key terms: ")

	terms := p.ContextualTerms(detectedBooks, 0)
	wrote := 0
	for _, term := range terms {
		addition := len(term) + 2
		if sb.Len()+addition > budgetChars-1 {
			break
		}
		if wrote > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(term)
		wrote++
	}
	sb.WriteString(".")

	if wrote == 0 || sb.Len() < minUsefulGlossaryChars {
		return DefaultGlossary
	}
	return sb.String()
}

// GlossaryPromptForTitle detects book references in a free-text sermon title
// before rendering the glossary.
func (p *Provider) GlossaryPromptForTitle(title string, budgetChars int) string {
	return p.GlossaryPrompt(DetectBooks(title), budgetChars)
}

// ContextualTermsForTitle detects book references in a free-text sermon title
// before collecting vocabulary.
func (p *Provider) ContextualTermsForTitle(title string, maxTerms int) []string {
	return p.ContextualTerms(DetectBooks(title), maxTerms)
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
