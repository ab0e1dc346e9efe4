// Package render formats a cart for terminal and Markdown output.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-ports/cartvault/internal/models"
)

// Price formats an amount with two decimals.
func Price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Table renders items as an aligned plain-text table followed by a totals
// line. An empty cart renders as a single "Cart is empty." line.
func Table(items models.Cart) string {
	if len(items) == 0 {
		return "Cart is empty.\n"
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			it.ID, it.Title, it.Quantity, Price(it.Price), Price(it.Subtotal()))
	}
	_ = tw.Flush()
	fmt.Fprintf(&sb, "\n%d item(s), total %s\n", items.Count(), Price(items.Total()))
	return sb.String()
}

// Markdown renders items as a Markdown table with a totals row.
func Markdown(items models.Cart) string {
	var sb strings.Builder
	sb.WriteString("| | Product | Qty | Price | Subtotal |\n")
	sb.WriteString("|---|---|---:|---:|---:|\n")
	for _, it := range items {
		img := ""
		if it.ImageURL != "" {
			img = "![](" + it.ImageURL + ")"
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %s | %s |\n",
			img, escapeCell(it.Title), it.Quantity, Price(it.Price), Price(it.Subtotal()))
	}
	fmt.Fprintf(&sb, "| | **Total** | **%d** | | **%s** |\n", items.Count(), Price(items.Total()))
	return sb.String()
}

// escapeCell keeps pipes and newlines in titles from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
