package style

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/copyedit/internal/annotate/category"
)

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			theme, err := ThemeByName(name)
			if err != nil {
				t.Fatalf("ThemeByName(%q) error = %v", name, err)
			}

			seen := make(map[tcell.Style]category.Category)
			for _, c := range append(append([]category.Category{}, category.Grammatical...), category.URL) {
				st := theme.StyleFor(c)
				if st == theme.Base {
					t.Errorf("%s uses the base style", c)
				}
				if prev, dup := seen[st]; dup {
					t.Errorf("%s and %s share a style", c, prev)
				}
				seen[st] = c
			}
		})
	}

	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected an error for an unknown theme")
	}
}

func TestTheme_URLUnderlined(t *testing.T) {
	theme := DefaultTheme()

	_, _, attrs := theme.StyleFor(category.URL).Decompose()
	if attrs&tcell.AttrUnderline == 0 {
		t.Error("expected URL style to be underlined")
	}
	_, _, attrs = theme.StyleFor(category.Noun).Decompose()
	if attrs&tcell.AttrUnderline != 0 {
		t.Error("noun style should not be underlined")
	}
}

func TestTheme_Tint(t *testing.T) {
	theme, err := NewTheme("test", Palette{
		Background: "#000000",
		Foreground: "#ffffff",
		Categories: map[category.Category]string{category.Verb: "#ff0000"},
	})
	if err != nil {
		t.Fatalf("NewTheme() error = %v", err)
	}

	fg, bg, _ := theme.StyleFor(category.Verb).Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v, want red", fg)
	}
	r, g, b := bg.RGB()
	if r == 0 || r >= 255 || g > r || b > r {
		t.Errorf("background (%d,%d,%d) should be a dark red tint", r, g, b)
	}

	if theme.StyleFor(category.Noun) != theme.Base {
		t.Error("unstyled category should fall back to base")
	}
}

func TestNewTheme_BadColor(t *testing.T) {
	_, err := NewTheme("bad", Palette{Background: "black", Foreground: "#fff"})
	if err == nil {
		t.Error("expected an error for a non-hex color")
	}
}

func TestClasses(t *testing.T) {
	if Class(category.Adverb) != "cm-pos-adverb" {
		t.Errorf("Class(adverb) = %q", Class(category.Adverb))
	}
	if Classes(category.URL) != "cm-copyedit cm-url" {
		t.Errorf("Classes(url) = %q", Classes(category.URL))
	}
}
