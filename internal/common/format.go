package common

import (
	"fmt"
	"strings"
)

// DefaultWidth is the frame width of the CLI reports.
const DefaultWidth = 80

// boxInnerWidth keeps box-drawing section separators slightly narrower than
// the frame so nested sections read as indented.
const boxInnerWidth = DefaultWidth - 2

// PrintSeparator prints a separator line with the given character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a report header framed by separators
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a report footer framed by separators
func PrintFooter(message string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxHeader opens a box-drawing section for one report subject: a title
// line, indented detail lines, and the section separator.
func PrintBoxHeader(title string, details ...string) {
	fmt.Printf("\n┌─ %s\n", title)
	for _, detail := range details {
		fmt.Printf("│  %s\n", detail)
	}
	fmt.Println("├" + strings.Repeat("─", boxInnerWidth))
}

// BoxPrefix returns the box-drawing prefix for a list item
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// TruncateId shortens long identifiers to fit fixed-width report columns.
// Empty ids render as "none".
func TruncateId(id string) string {
	if id == "" {
		return "none"
	}
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}
