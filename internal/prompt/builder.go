// Package prompt assembles recognition prompts from a fixed glossary and a
// budgeted window of recent transcript context.
package prompt

import (
	"strings"
	"unicode/utf8"
)

const separator = " "

// Builder composes recognition prompts. The glossary is never trimmed; recent
// context is cut from the front to fit its budget so the most recent speech
// survives. MaxChars = glossary budget + context budget + 1 separator char.
type Builder struct {
	glossary       string
	maxChars       int
	glossaryBudget int
}

// NewBuilder returns a Builder for the given glossary. The glossary is
// clamped to glossaryBudget up front so configuration errors cannot starve
// the context budget.
func NewBuilder(glossary string, maxChars, glossaryBudget int) *Builder {
	glossary = headWithinBudget(glossary, glossaryBudget)
	return &Builder{
		glossary:       glossary,
		maxChars:       maxChars,
		glossaryBudget: glossaryBudget,
	}
}

// ContextBudget is the character budget left for recent-transcript context.
func (b *Builder) ContextBudget() int {
	return b.maxChars - b.glossaryBudget - len(separator)
}

// Build produces a prompt from free-text recent context. The glossary is
// always fully present as the suffix; when context overflows its budget it is
// trimmed from the front, preserving the trailing characters. Empty context
// yields the glossary alone.
func (b *Builder) Build(recentContext string) string {
	context := strings.TrimSpace(recentContext)
	if context == "" {
		return b.glossary
	}

	budget := b.ContextBudget()
	if budget <= 0 {
		return b.glossary
	}
	context = tailWithinBudget(context, budget)

	if b.glossary == "" {
		return context
	}
	return context + separator + b.glossary
}

// BuildFromSegments joins recent transcript segments with single spaces
// before budgeting.
func (b *Builder) BuildFromSegments(recentSegments []string) string {
	return b.Build(strings.Join(recentSegments, " "))
}

// headWithinBudget keeps at most max leading bytes of s without splitting a
// rune at the cut.
func headWithinBudget(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// tailWithinBudget keeps at most max trailing bytes of s, moving the cut
// forward to the next rune boundary.
func tailWithinBudget(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	start := len(s) - max
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
