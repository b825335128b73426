package board

import (
	"strings"

	"boardd/domain"
)

// Parse reads a board document into the structured model. It never fails:
// malformed lines are dropped and malformed fields stay at their defaults, so
// a hand-edited document always loads.
func Parse(text string) *domain.Board {
	b := domain.NewBoard()

	active := sectionNone
	colKey := ""
	var current *domain.Card

	flush := func() {
		if current != nil && colKey != "" {
			b.Columns[colKey] = append(b.Columns[colKey], *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t\r")

		switch classifyLine(line) {
		case lineSectionHeading:
			flush()
			active, colKey = resolveHeading(line[3:])

		case lineTopHeading:
			// Document title, informational only.

		case lineListItem:
			body := line[2:]
			switch active {
			case sectionPillars:
				if p, ok := parsePillarLine(body); ok {
					b.Pillars = append(b.Pillars, p)
				}
			case sectionTeam:
				if o, ok := parseOwnerLine(body); ok {
					b.Owners = append(b.Owners, o)
				}
			case sectionFunctions:
				if f, ok := parseFunctionLine(body); ok {
					b.Functions = append(b.Functions, f)
				}
			case sectionCards:
				flush()
				card := parseCardLine(body)
				current = &card
			}

		case lineIndent:
			if current == nil {
				continue
			}
			noteLine := strings.TrimSpace(line)
			if noteLine == "" {
				continue
			}
			switch {
			case strings.HasPrefix(noteLine, ">> ") && current.NextAction == "":
				current.NextAction = noteLine[3:]
			case current.Note != "":
				current.Note += "\n" + noteLine
			default:
				current.Note = noteLine
			}

		case lineBlank:
			// A blank line inside a card's note block is absorbed; the card
			// stays open until the next list item or heading.
		}
	}
	flush()

	return b
}
