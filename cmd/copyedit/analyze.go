package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/dshills/copyedit/internal/annotate"
	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/exclusion"
	"github.com/dshills/copyedit/internal/annotate/urls"
)

// AnalyzeCmd runs one analysis pass and prints the decorations.
type AnalyzeCmd struct {
	Path   string   `arg:"" optional:"" default:"-" help:"Markdown file to analyze, - for stdin"`
	Format string   `short:"f" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
	Parts  []string `name:"parts" short:"p" help:"Parts of speech to highlight (nouns, verbs, adjectives, adverbs, conjunctions); overrides the config file"`
	NoURLs bool     `name:"no-urls" help:"Do not highlight URLs"`
	Stats  bool     `help:"Include resolver statistics"`
}

// Run prints the decorations of the input document.
func (c *AnalyzeCmd) Run(g *Globals, kctx *kong.Context) error {
	ctx := context.Background()
	s, err := g.open(ctx, kctx.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := readInput(c.Path, os.Stdin)
	if err != nil {
		return err
	}

	opts := s.annotatorOptions()
	if len(c.Parts) > 0 {
		set, err := category.ParseSet(c.Parts)
		if err != nil {
			return err
		}
		opts = append(opts, annotate.WithCategories(set))
	}
	if c.NoURLs {
		opts = append(opts, annotate.WithHighlightURLs(false))
	}

	a := annotate.New(staticSource(text), opts...)
	defer a.Close()

	set, stats := a.AnalyzeStats(text)
	report := newReport(c.Path, text, set)
	if c.Stats {
		report.Stats = &stats
	}
	return writeReport(kctx.Stdout, c.Format, report)
}

// URLsCmd lists the URLs of a document, or checks single values.
type URLsCmd struct {
	Path   string   `arg:"" optional:"" default:"-" help:"Markdown file to scan, - for stdin"`
	Format string   `short:"f" enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
	All    bool     `help:"Also list URLs in code, front matter and link syntax"`
	Check  []string `help:"Validate these values instead of scanning a document"`
}

// Run prints the URL matches.
func (c *URLsCmd) Run(kctx *kong.Context) error {
	if len(c.Check) > 0 {
		return c.check(kctx)
	}

	text, err := readInput(c.Path, os.Stdin)
	if err != nil {
		return err
	}
	matches := findURLs(text, c.All)

	switch c.Format {
	case formatJSON, formatYAML:
		if matches == nil {
			matches = []urls.Match{}
		}
		return encode(kctx.Stdout, c.Format, matches)
	default:
		for _, m := range matches {
			fmt.Fprintf(kctx.Stdout, "%d\t%d\t%s\n", m.From, m.To, m.URL)
		}
		return nil
	}
}

func (c *URLsCmd) check(kctx *kong.Context) error {
	var invalid []string
	for _, v := range c.Check {
		ok := urls.IsValid(v)
		fmt.Fprintf(kctx.Stdout, "%t\t%s\n", ok, v)
		if !ok {
			invalid = append(invalid, v)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%d invalid: %s", len(invalid), strings.Join(invalid, ", "))
	}
	return nil
}

// findURLs returns the URLs an analysis pass would highlight, in text
// order. With all set, exclusion regions are ignored.
func findURLs(text string, all bool) []urls.Match {
	idx := exclusion.Scan(text)
	skip := idx.FrontMatterEnd()
	if all {
		skip = 0
	}

	var out []urls.Match
	for _, m := range urls.Find(text[skip:], skip) {
		if !all && idx.Excluded(m.From, m.To, exclusion.AllKinds&^exclusion.KindLink) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}
