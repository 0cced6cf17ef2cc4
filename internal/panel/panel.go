// Package panel renders the details of the selected record: the preview
// image, the detail lines and the record's own images.
package panel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/games"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
)

// PreviewLookup finds the external preview image of a record. An empty
// URL means there is none.
type PreviewLookup interface {
	Lookup(ctx context.Context, b games.Binding, r records.Record) (string, error)
}

type Line struct {
	Label string
	Value string
}

// View is what the panel shows for one record.
type View struct {
	Preview string
	Lines   []Line
	// Images holds one caption per record image, in display order.
	Images []string
}

type Panel struct {
	binding games.Binding
	lookup  PreviewLookup
	log     logging.Logger
}

type Option func(*Panel)

func WithLogger(l logging.Logger) Option {
	return func(p *Panel) { p.log = l }
}

func New(b games.Binding, lookup PreviewLookup, opts ...Option) *Panel {
	p := &Panel{binding: b, lookup: lookup, log: logging.Nop()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Preview returns the preview image URL of r, falling back to the game's
// default image when the lookup finds nothing or fails.
func (p *Panel) Preview(ctx context.Context, r records.Record) string {
	if p.lookup == nil {
		return p.binding.DefaultImageURL
	}
	url, err := p.lookup.Lookup(ctx, p.binding, r)
	if err != nil {
		p.log.Debug(ctx, "using default preview", "id", r.ID, "err", err)
		return p.binding.DefaultImageURL
	}
	if url == "" {
		return p.binding.DefaultImageURL
	}
	return url
}

// Render builds the panel for r. Without a selection only the default
// preview is shown.
func (p *Panel) Render(ctx context.Context, r records.Record, selected bool) View {
	if !selected {
		return View{Preview: p.binding.DefaultImageURL}
	}
	return View{
		Preview: p.Preview(ctx, r),
		Lines:   Details(p.binding, r),
		Images:  captions(len(r.Images)),
	}
}

// Details lists the fields of r in display order. The set number line is
// present only when the record has one.
func Details(b games.Binding, r records.Record) []Line {
	lines := []Line{
		{"Name", r.Name},
		{"Set", r.Set.Name},
	}
	if r.SetNo != "" {
		lines = append(lines, Line{"Set No.", strings.ToUpper(r.Set.ID) + "-" + r.SetNo})
	}
	lines = append(lines,
		Line{"Language", r.Language},
		Line{"Condition", r.Condition},
		Line{"Amount", strconv.Itoa(r.Amount)},
		Line{"", strings.Join(Marks(b.Schema, r), ", ")},
		Line{"Note", r.Note},
	)
	return lines
}

// Marks names the set boolean attributes of r: the game's flags first, then
// signed and altered.
func Marks(schema records.AttributeSchema, r records.Record) []string {
	var out []string
	for _, a := range schema.Attributes() {
		if v, err := schema.Value(r, a.Key); err == nil && v {
			out = append(out, a.Label)
		}
	}
	if r.Signed {
		out = append(out, "Signed")
	}
	if r.Altered {
		out = append(out, "Altered")
	}
	return out
}

func captions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Image %d", i+1)
	}
	return out
}
