package markdown

import "strings"

// Table renders a GitHub-flavoured markdown table. Pipes inside cells are escaped.
func Table(headers []string, rows [][]string) string {
	var sb strings.Builder
	writeRow(&sb, headers)
	sb.WriteString("|")
	for range headers {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		writeRow(&sb, cells)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(c, "|", `\|`))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
