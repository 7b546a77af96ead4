package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pulpitworks/sermon-pipeline/internal/bible"
)

func main() {
	var (
		overlayPath = flag.String("overlay", "", "path to a YAML vocabulary overlay to validate and merge")
		book        = flag.String("book", "", "print the merged vocabulary for one canonical book")
	)
	flag.Parse()

	provider := bible.NewProvider()

	if strings.TrimSpace(*overlayPath) != "" {
		file, err := os.Open(*overlayPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vocab: open overlay: %v\n", err)
			os.Exit(1)
		}
		err = provider.LoadOverlay(file)
		file.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "vocab: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Overlay %s OK\n", *overlayPath)
	}

	if strings.TrimSpace(*book) != "" {
		canonical, ok := bible.Canonical(*book)
		if !ok {
			fmt.Fprintf(os.Stderr, "vocab: unknown book %q\n", *book)
			os.Exit(2)
		}
		terms := provider.ContextualTerms([]string{canonical}, 0)
		fmt.Printf("%s: %d terms\n", canonical, len(terms))
		for _, term := range terms {
			fmt.Printf("  %s\n", term)
		}
		return
	}

	total := 0
	for _, name := range bible.Books {
		total += len(bible.TermsForBook(name))
	}
	fmt.Printf("%d books, %d built-in vocabulary terms\n", len(bible.Books), total)
}
