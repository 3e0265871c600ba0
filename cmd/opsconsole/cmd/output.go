package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/snapbook/opsconsole/internal/domain/admin"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printResult writes v in the selected format. Tables are built by rows.
func printResult(cmd *cobra.Command, v any, header table.Row, rows func() []table.Row) error {
	w := cmd.OutOrStdout()
	switch outputFormat {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return writeYAML(w, v)
	case formatTable, "":
		return renderTable(w, header, rows())
	default:
		return fmt.Errorf("unknown output format %q (use table, json or yaml)", outputFormat)
	}
}

func renderTable(w io.Writer, header table.Row, rows []table.Row) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func tableOutput() bool {
	return outputFormat == formatTable || outputFormat == ""
}

// printPage prints a list and, for tables, its position.
func printPage[T any](cmd *cobra.Command, p *admin.Page[T], header table.Row, row func(T) table.Row) error {
	err := printResult(cmd, p, header, func() []table.Row {
		rows := make([]table.Row, 0, len(p.Items))
		for _, it := range p.Items {
			rows = append(rows, row(it))
		}
		return rows
	})
	if err != nil || !tableOutput() {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d total\n", p.Page, p.Pages(), p.Total)
	return err
}

// writeYAML goes through JSON so field names match the API.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// opt renders nillable fields, "-" when absent.
func opt[T any](p *T) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
