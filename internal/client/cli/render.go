package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/cardkeeper/internal/panel"
	"github.com/dmitrijs2005/cardkeeper/internal/records"
	"github.com/dmitrijs2005/cardkeeper/internal/table"
)

const ellipsis = "…"

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return ellipsis
	}
	r := []rune(s)
	return string(r[:n-1]) + ellipsis
}

// renderTable prints rows under the field labels. Cells are cut so a row
// fits in width columns; the selected row is marked with ">".
func renderTable(w io.Writer, fields []table.Field, rows []records.Record, selected int64, hasSel bool, width int) error {
	cols := len(fields) + 1
	cell := max(4, width/cols-2)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"  ID"}
	for _, f := range fields {
		header = append(header, truncate(f.Label, cell))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range rows {
		mark := "  "
		if hasSel && r.ID == selected {
			mark = "> "
		}
		line := []string{mark + strconv.FormatInt(r.ID, 10)}
		for _, f := range fields {
			line = append(line, truncate(f.Cell(r), cell))
		}
		fmt.Fprintln(tw, strings.Join(line, "\t"))
	}
	return tw.Flush()
}

func renderPanel(w io.Writer, v panel.View) {
	fmt.Fprintln(w, "Preview:", v.Preview)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%s\t%s\n", l.Label, l.Value)
	}
	_ = tw.Flush()
	for i, c := range v.Images {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, c)
	}
}

func renderDraft(w io.Writer, schema records.AttributeSchema, d records.Record, staged []string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", d.Name)
	fmt.Fprintf(tw, "set\t%s (%s)\n", d.Set.Name, d.Set.ID)
	fmt.Fprintf(tw, "setno\t%s\n", d.SetNo)
	fmt.Fprintf(tw, "language\t%s\n", d.Language)
	fmt.Fprintf(tw, "condition\t%s\n", d.Condition)
	fmt.Fprintf(tw, "amount\t%d\n", d.Amount)
	fmt.Fprintf(tw, "signed\t%t\n", d.Signed)
	fmt.Fprintf(tw, "altered\t%t\n", d.Altered)
	for _, a := range schema.Attributes() {
		v, _ := schema.Value(d, a.Key)
		fmt.Fprintf(tw, "%s\t%t\n", a.Key, v)
	}
	fmt.Fprintf(tw, "note\t%s\n", d.Note)
	_ = tw.Flush()
	for i, img := range staged {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, img)
	}
}
