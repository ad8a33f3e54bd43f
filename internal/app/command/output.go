package command

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

// PrintTable writes tab separated rows aligned into columns.
func PrintTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, line := range append([][]string{header}, rows...) {
		for i, cell := range line {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// PrintFieldErrors lists errors the way a form shows them next to each input.
func PrintFieldErrors(w io.Writer, errs *model.FieldErrors) {
	for _, field := range errs.Fields() {
		msg, _ := errs.Get(field)
		if field == model.GeneralField {
			fmt.Fprintf(w, "  %s\n", msg)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", field, msg)
	}
}
