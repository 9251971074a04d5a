package search

import (
	"strings"

	"github.com/gravitrone/annotator/cli/internal/api"
)

// DefaultPageSize is the number of result rows shown per page.
const DefaultPageSize = 8

// NoTitle is shown for results that carry neither title, id nor URI.
const NoTitle = "<no title>"

// Action is the per-row operation offered to the user.
type Action int

const (
	ActionImport Action = iota
	ActionOpen
)

func (a Action) String() string {
	if a == ActionOpen {
		return "open"
	}
	return "import"
}

// Row is a search hit prepared for display.
type Row struct {
	Result     api.ExternalSearchResult
	Title      string
	Highlights [][]Fragment
	Imported   bool
	// StatusErr is set when the imported status could not be resolved.
	StatusErr error
}

// NewRow derives the display fields of a result.
func NewRow(r api.ExternalSearchResult) Row {
	row := Row{Result: r, Title: DisplayTitle(r)}
	for _, h := range r.Highlights {
		if frags := CleanHighlight(h.Highlight); len(frags) > 0 {
			row.Highlights = append(row.Highlights, frags)
		}
	}
	return row
}

// Key is the document title the platform knows the result by.
func (r Row) Key() string {
	if t := strings.TrimSpace(r.Result.DocumentTitle); t != "" {
		return t
	}
	return strings.TrimSpace(r.Result.DocumentID)
}

// Action reports whether the row offers import or open. Never both.
func (r Row) Action() Action {
	if r.Imported {
		return ActionOpen
	}
	return ActionImport
}

// Status is the imported column text.
func (r Row) Status() string {
	if r.Imported {
		return "imported"
	}
	return "not imported"
}

// DisplayTitle picks the first non-blank of title, id and URI.
func DisplayTitle(r api.ExternalSearchResult) string {
	for _, s := range []string{r.DocumentTitle, r.DocumentID, r.URI} {
		if t := strings.TrimSpace(s); t != "" {
			return t
		}
	}
	return NoTitle
}

// ResultProvider holds the rows of the last successful query and serves them
// in fixed-size pages.
type ResultProvider struct {
	rows     []Row
	pageSize int
}

// NewResultProvider creates an empty provider. Non-positive sizes use DefaultPageSize.
func NewResultProvider(pageSize int) *ResultProvider {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ResultProvider{pageSize: pageSize}
}

// Set replaces all rows.
func (p *ResultProvider) Set(rows []Row) {
	p.rows = append([]Row(nil), rows...)
}

// Size returns the total number of rows.
func (p *ResultProvider) Size() int { return len(p.rows) }

// PageSize returns the rows per page.
func (p *ResultProvider) PageSize() int { return p.pageSize }

// Pages returns the number of pages, at least one.
func (p *ResultProvider) Pages() int {
	if len(p.rows) == 0 {
		return 1
	}
	return (len(p.rows) + p.pageSize - 1) / p.pageSize
}

// Page returns the rows of page n (zero-based), clamped to the valid range.
func (p *ResultProvider) Page(n int) []Row {
	if len(p.rows) == 0 {
		return nil
	}
	if n < 0 {
		n = 0
	}
	if last := p.Pages() - 1; n > last {
		n = last
	}
	start := n * p.pageSize
	end := min(start+p.pageSize, len(p.rows))
	return p.rows[start:end]
}

// Rows returns all rows in result order.
func (p *ResultProvider) Rows() []Row { return p.rows }

// Row returns the row at absolute index i.
func (p *ResultProvider) Row(i int) (Row, bool) {
	if i < 0 || i >= len(p.rows) {
		return Row{}, false
	}
	return p.rows[i], true
}

// MarkImported flips every row with this key to imported.
func (p *ResultProvider) MarkImported(key string) int {
	n := 0
	for i := range p.rows {
		if p.rows[i].Key() == key {
			p.rows[i].Imported = true
			p.rows[i].StatusErr = nil
			n++
		}
	}
	return n
}
