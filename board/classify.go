// Package board implements the bidirectional transcoder between the in-memory
// board model and its Markdown document encoding.
package board

import "strings"

// lineKind classifies one raw document line.
type lineKind int

const (
	lineBlank lineKind = iota
	lineTopHeading
	lineSectionHeading
	lineListItem
	lineIndent
	lineOther
)

// section identifies which per-section handler owns subsequent list items.
type section int

const (
	sectionNone section = iota
	sectionPillars
	sectionTeam
	sectionFunctions
	sectionCards
)

// classifyLine categorizes a line whose trailing whitespace has already been
// stripped. Leading indentation is significant and must be intact.
func classifyLine(line string) lineKind {
	switch {
	case line == "":
		return lineBlank
	case strings.HasPrefix(line, "## "):
		return lineSectionHeading
	case strings.HasPrefix(line, "# "):
		return lineTopHeading
	case strings.HasPrefix(line, "- "):
		return lineListItem
	case strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t"):
		return lineIndent
	}
	return lineOther
}

// resolveHeading maps a section heading's text to the section it activates.
// Column headings additionally yield the column key. Unrecognized headings
// return sectionNone, which deactivates list-item parsing until the next
// recognized heading.
func resolveHeading(text string) (section, string) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "pillars":
		return sectionPillars, ""
	case "team":
		return sectionTeam, ""
	case "functions":
		return sectionFunctions, ""
	case "now":
		return sectionCards, "now"
	case "next up", "next":
		return sectionCards, "next"
	case "waiting":
		return sectionCards, "waiting"
	case "done":
		return sectionCards, "done"
	}
	return sectionNone, ""
}
