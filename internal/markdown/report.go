// Package markdown renders summaries as Markdown documents.
package markdown

import (
	"fmt"
	"math"
	"strings"

	"docsummary/internal/domain"
)

// Average characters per word used to estimate the source word count.
const charsPerWord = 5

// Report renders result as a Norwegian Markdown report for fileName.
func Report(fileName string, result domain.SummaryResult) string {
	var b strings.Builder

	b.WriteString("# Sammendrag fullført\n\n")
	if name := strings.TrimSpace(fileName); name != "" {
		fmt.Fprintf(&b, "_%s_\n\n", Escape(name))
	}

	fmt.Fprintf(&b, "- Ord i sammendrag: %d\n", result.WordCount)
	fmt.Fprintf(&b, "- Original lengde: %d\n", result.OriginalLength)
	if ratio, ok := Compression(result); ok {
		fmt.Fprintf(&b, "- Komprimering: %d%%\n", ratio)
	}

	b.WriteString("\n## Sammendrag\n\n")
	b.WriteString(escapeLines(strings.TrimSpace(result.Summary)))
	b.WriteString("\n")

	if len(result.KeyPoints) > 0 {
		b.WriteString("\n## Nøkkelpunkter\n\n")
		for _, point := range result.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", Escape(strings.Join(strings.Fields(point), " ")))
		}
	}

	return b.String()
}

// Compression estimates how much shorter the summary is than the source, as
// a rounded percentage. It reports false when the source length is unknown.
func Compression(result domain.SummaryResult) (int, bool) {
	if result.OriginalLength <= 0 {
		return 0, false
	}

	estimatedWords := float64(result.OriginalLength) / charsPerWord
	ratio := (1 - float64(result.WordCount)/estimatedWords) * 100

	return int(math.Floor(ratio + 0.5)), true
}

func escapeLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = Escape(line)
	}

	return strings.Join(lines, "\n")
}
