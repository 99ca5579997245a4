package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/resolve"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/engine/buffer"
	"github.com/dshills/copyedit/internal/renderer/style"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Report is the machine-readable result of one analysis.
type Report struct {
	Source   string          `json:"source" yaml:"source"`
	Revision buffer.Revision `json:"revision" yaml:"revision"`
	Spans    []SpanRecord    `json:"spans" yaml:"spans"`
	Counts   map[string]int  `json:"counts" yaml:"counts"`
	Stats    *resolve.Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// SpanRecord is one decoration with its text and style class.
type SpanRecord struct {
	From     buffer.ByteOffset `json:"from" yaml:"from"`
	To       buffer.ByteOffset `json:"to" yaml:"to"`
	Category category.Category `json:"category" yaml:"category"`
	Class    string            `json:"class" yaml:"class"`
	Text     string            `json:"text" yaml:"text"`
}

func newReport(source, text string, set span.Set) Report {
	r := Report{
		Source: source,
		Spans:  make([]SpanRecord, 0, len(set)),
		Counts: make(map[string]int),
	}
	for _, sp := range set {
		rec := SpanRecord{
			From:     sp.From,
			To:       sp.To,
			Category: sp.Category,
			Class:    style.Classes(sp.Category),
		}
		if sp.To <= buffer.ByteOffset(len(text)) {
			rec.Text = text[sp.From:sp.To]
		}
		r.Spans = append(r.Spans, rec)
	}
	for c, n := range set.Count() {
		r.Counts[c.String()] = n
	}
	return r
}

// summary is the one-line form used by watch.
func (r Report) summary() string {
	var parts []string
	for _, c := range append(append([]category.Category{}, category.Grammatical...), category.URL) {
		if n := r.Counts[c.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c, n))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s@%d: no decorations", r.Source, r.Revision)
	}
	return fmt.Sprintf("%s@%d: %d decorations (%s)", r.Source, r.Revision, len(r.Spans), strings.Join(parts, ", "))
}

func writeReport(w io.Writer, format string, r Report) error {
	if format == formatText || format == "" {
		return writeText(w, r)
	}
	return encode(w, format, r)
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tCATEGORY\tTEXT")
	for _, rec := range r.Spans {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%q\n", rec.From, rec.To, rec.Category, rec.Text)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if r.Stats != nil {
		_, err := fmt.Fprintf(w, "\n%d candidates: %d excluded, %d duplicates, %d overlaps, %d accepted\n",
			r.Stats.Candidates, r.Stats.Excluded, r.Stats.Duplicates, r.Stats.Overlaps, r.Stats.Accepted)
		return err
	}
	return nil
}

// encodeLine writes v as compact single-line JSON.
func encodeLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
