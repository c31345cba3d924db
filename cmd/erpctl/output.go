package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	core "github.com/goliatone/go-erp-dashboard/components/dashboard"
	"github.com/goliatone/go-erp-dashboard/components/records"
)

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func writeTable(w io.Writer, table records.Table) error {
	fmt.Fprintf(w, "%s (%d of %d)\n", table.Title, table.Visible, table.Total)
	if table.Empty {
		fmt.Fprintln(w, table.EmptyMessage)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for i, col := range table.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, strcase.ToCase(col.Title, strcase.UpperCase, ' '))
	}
	fmt.Fprintln(tw)
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cellText(row, col.Key))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func cellText(row records.TableRow, key string) string {
	if badge, ok := row.Badges[key]; ok && badge.Label != "" {
		return badge.Label
	}
	value, ok := row.Cells[key]
	if !ok || value == nil {
		return "-"
	}
	return fmt.Sprint(value)
}

func writeNavigation(w io.Writer, entries []core.NavEntry) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for _, entry := range entries {
		marker := " "
		if entry.Active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, entry.Title, entry.Path, entry.Section)
	}
	return tw.Flush()
}
