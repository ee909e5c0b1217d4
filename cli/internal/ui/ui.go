// Package ui renders queries, rows and paging state for the terminal.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/paging"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	pageColor = color.New(color.FgCyan)
)

// NullText is shown for NULL values.
const NullText = "NULL"

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Println(SuccessStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Println(WarningStyle.Render("⚠ " + fmt.Sprintf(format, args...)))
}

// PrintQuery prints the SQL in a box followed by its arguments.
func PrintQuery(title string, q query.Query) {
	width := 80
	if w := pterm.GetTerminalWidth(); w > 0 {
		width = w
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(width).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				TitleStyle.Render(title),
				q.SQL,
			),
		)
	fmt.Println(box)

	if len(q.Args) == 0 {
		fmt.Println(SecondaryStyle.Render("no arguments"))
		return
	}
	printTable([]string{"#", "type", "value"}, ArgRows(q.Args))
}

// PrintRows prints rows as a table, columns in name order.
func PrintRows(rows []query.Row) {
	if len(rows) == 0 {
		fmt.Println(SecondaryStyle.Render("no rows"))
		return
	}
	headers, data := RowTable(rows)
	printTable(headers, data)
}

// PrintPage prints a one-line summary of the paging state.
func PrintPage(p paging.Page) {
	pageColor.Println(PageSummary(p))
}

// PrintMarkdown renders markdown content
func PrintMarkdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}

func printTable(headers []string, rows [][]string) {
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		PrintError("failed to render table: %v", err)
	}
}

// ArgRows lists bound arguments as (position, Go type, value) rows.
func ArgRows(args []interface{}) [][]string {
	rows := make([][]string, len(args))
	for i, a := range args {
		rows[i] = []string{fmt.Sprintf("$%d", i+1), fmt.Sprintf("%T", a), formatValue(a)}
	}
	return rows
}

// RowTable converts rows to a header and cell matrix. Columns missing from a
// row render as empty cells.
func RowTable(rows []query.Row) ([]string, [][]string) {
	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				headers = append(headers, col)
			}
		}
	}
	sort.Strings(headers)

	data := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(headers))
		for j, col := range headers {
			if v, ok := row[col]; ok {
				cells[j] = formatValue(v)
			}
		}
		data[i] = cells
	}
	return headers, data
}

// PageSummary describes p, e.g. "page 2 of 5, rows 10-19 of 47, next page available".
func PageSummary(p paging.Page) string {
	var parts []string
	if pages, ok := p.PageCount(); ok {
		parts = append(parts, fmt.Sprintf("page %d of %d", p.Number+1, pages))
	} else {
		parts = append(parts, fmt.Sprintf("page %d", p.Number+1))
	}

	first, _ := p.FirstResult()
	if p.Fetched != nil {
		shown := *p.Fetched
		if p.Max != nil && shown > *p.Max {
			shown = *p.Max
		}
		rows := fmt.Sprintf("rows %d-%d", first, first+shown-1)
		if shown == 0 {
			rows = "no rows"
		}
		if p.Count != nil {
			rows += fmt.Sprintf(" of %d", *p.Count)
		}
		parts = append(parts, rows)
	}
	if p.IsNextExists() {
		parts = append(parts, "next page available")
	}
	return strings.Join(parts, ", ")
}

// QueryMarkdown documents a built query and its count query as markdown.
func QueryMarkdown(dialect string, q, count query.Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Query (%s)\n\n", dialect)
	writeQuery(&b, q)
	b.WriteString("\n# Count query\n\n")
	writeQuery(&b, count)
	return b.String()
}

func writeQuery(b *strings.Builder, q query.Query) {
	b.WriteString("```sql\n")
	b.WriteString(q.SQL)
	b.WriteString("\n```\n")
	if len(q.Args) == 0 {
		b.WriteString("\nNo bound arguments.\n")
		return
	}
	b.WriteString("\n| # | type | value |\n|---|---|---|\n")
	for _, row := range ArgRows(q.Args) {
		fmt.Fprintf(b, "| %s | `%s` | %s |\n", row[0], row[1], strings.ReplaceAll(row[2], "|", `\|`))
	}
}

func formatValue(v interface{}) string {
	if v == nil {
		return NullText
	}
	return fmt.Sprint(v)
}
