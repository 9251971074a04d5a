package search

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// highlightPolicy keeps the emphasis tags the search backend wraps around
// matched terms and strips every other element.
var highlightPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("em")
	return p
}()

const (
	emOpen  = "<em>"
	emClose = "</em>"
)

// Fragment is a run of highlight text, emphasized when it matched the query.
type Fragment struct {
	Text     string
	Emphasis bool
}

// CleanHighlight sanitizes a backend snippet and splits it into plain and
// emphasized fragments. Entities are decoded; empty runs are dropped.
func CleanHighlight(snippet string) []Fragment {
	cleaned := highlightPolicy.Sanitize(snippet)

	var out []Fragment
	depth := 0
	emit := func(text string) {
		if text == "" {
			return
		}
		text = html.UnescapeString(text)
		em := depth > 0
		if n := len(out); n > 0 && out[n-1].Emphasis == em {
			out[n-1].Text += text
			return
		}
		out = append(out, Fragment{Text: text, Emphasis: em})
	}

	rest := cleaned
	for rest != "" {
		open := strings.Index(rest, emOpen)
		closing := strings.Index(rest, emClose)
		switch {
		case open < 0 && closing < 0:
			emit(rest)
			rest = ""
		case closing < 0 || (open >= 0 && open < closing):
			emit(rest[:open])
			depth++
			rest = rest[open+len(emOpen):]
		default:
			emit(rest[:closing])
			if depth > 0 {
				depth--
			}
			rest = rest[closing+len(emClose):]
		}
	}
	return out
}

// PlainText joins fragments without markup.
func PlainText(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}
