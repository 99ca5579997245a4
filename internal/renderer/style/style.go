// Package style maps decoration categories to terminal styles and CSS
// classes.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/copyedit/internal/annotate/category"
)

// tintAmount is how far a category background moves from the theme
// background toward the category color.
const tintAmount = 0.18

// Palette names a theme's colors as hex strings.
type Palette struct {
	Background string
	Foreground string
	Categories map[category.Category]string
}

// Theme holds resolved terminal styles.
type Theme struct {
	Name string

	Base   tcell.Style
	Status tcell.Style

	categories map[category.Category]tcell.Style
}

// NewTheme resolves a palette. Category styles use the category color as
// foreground on a background tinted toward it; URLs are also underlined.
func NewTheme(name string, p Palette) (*Theme, error) {
	bg, err := colorful.Hex(p.Background)
	if err != nil {
		return nil, fmt.Errorf("theme %s background: %w", name, err)
	}
	fg, err := colorful.Hex(p.Foreground)
	if err != nil {
		return nil, fmt.Errorf("theme %s foreground: %w", name, err)
	}

	t := &Theme{
		Name:       name,
		Base:       tcell.StyleDefault.Background(toTcell(bg)).Foreground(toTcell(fg)),
		Status:     tcell.StyleDefault.Background(toTcell(fg)).Foreground(toTcell(bg)),
		categories: make(map[category.Category]tcell.Style, len(p.Categories)),
	}

	for cat, hex := range p.Categories {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("theme %s %s color: %w", name, cat, err)
		}
		st := t.Base.
			Foreground(toTcell(c)).
			Background(toTcell(bg.BlendLab(c, tintAmount).Clamped()))
		if cat == category.URL {
			st = st.Underline(true)
		}
		t.categories[cat] = st
	}
	return t, nil
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// StyleFor returns the style of a category, or Base when the theme does
// not style it.
func (t *Theme) StyleFor(c category.Category) tcell.Style {
	if st, ok := t.categories[c]; ok {
		return st
	}
	return t.Base
}

// Class returns the CSS class of a category.
func Class(c category.Category) string {
	return c.Class()
}

// Classes returns a space-separated class attribute for a category,
// including the shared "cm-copyedit" class.
func Classes(c category.Category) string {
	return "cm-copyedit " + c.Class()
}

var palettes = map[string]Palette{
	"dark": {
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Categories: map[category.Category]string{
			category.Noun:        "#4fc1ff",
			category.Verb:        "#f48771",
			category.Adjective:   "#b5cea8",
			category.Adverb:      "#c586c0",
			category.Conjunction: "#dcdcaa",
			category.URL:         "#3794ff",
		},
	},
	"light": {
		Background: "#ffffff",
		Foreground: "#1f1f1f",
		Categories: map[category.Category]string{
			category.Noun:        "#0451a5",
			category.Verb:        "#a31515",
			category.Adjective:   "#098658",
			category.Adverb:      "#af00db",
			category.Conjunction: "#795e26",
			category.URL:         "#0000ee",
		},
	},
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName resolves a built-in theme.
func ThemeByName(name string) (*Theme, error) {
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return NewTheme(strings.ToLower(name), p)
}

// DefaultTheme returns the dark theme.
func DefaultTheme() *Theme {
	t, err := ThemeByName("dark")
	if err != nil {
		panic(err)
	}
	return t
}
