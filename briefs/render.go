package briefs

import (
	"strings"
	"time"

	"boardd/domain"
)

// builtinLabels maps well-known function keys to display labels, used when
// the board's own Functions section has no entry for a key.
var builtinLabels = map[string]string{
	"finops":        "Financial & Ops Plan",
	"marketing":     "Marketing",
	"operations":    "Operations",
	"product":       "Product",
	"supplychain":   "Supply Chain",
	"manufacturing": "Manufacturing",
	"quality":       "Quality",
	"fulfillment":   "Fulfillment / Shipping",
	"website":       "Website",
	"software":      "Software",
	"support":       "Customer Support",
	"ip":            "IP",
	"accounting":    "Accounting & Taxes",
	"legal":         "Legal",
}

// LabelLookup builds a function-label resolver from the board's Functions
// section, falling back to the built-in table and finally to a capitalized
// key.
func LabelLookup(functions []domain.Function) func(string) string {
	byKey := map[string]string{}
	for _, f := range functions {
		if f.Key != "" && f.Label != "" {
			byKey[f.Key] = f.Label
		}
	}
	return func(key string) string {
		if key == "" {
			return ""
		}
		if label, ok := byKey[key]; ok {
			return label
		}
		if label, ok := builtinLabels[key]; ok {
			return label
		}
		return capitalize(key)
	}
}

// Render produces the brief document text for a card. The template's section
// headings are fixed; Context bullets are populated from the card's fields.
func Render(card domain.Card, labelFor func(string) string, today time.Time) string {
	priority := card.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	fnDisplay := ""
	if labelFor != nil {
		fnDisplay = labelFor(card.Fn)
	}

	lines := []string{
		"# " + card.Title,
		"",
		"## Objective",
		"_What needs to happen and why._",
		"",
		"## Context",
	}
	if card.Owner != "" {
		lines = append(lines, "- **Owner:** "+card.Owner)
	}
	if fnDisplay != "" {
		lines = append(lines, "- **Function:** "+fnDisplay)
	}
	lines = append(lines, "- **Priority:** "+capitalize(priority))
	if card.Due != "" {
		lines = append(lines, "- **Due:** "+card.Due)
	}
	lines = append(lines, "- **Created:** "+today.Format("2006-01-02"))
	lines = append(lines,
		"",
		"## Current Situation",
		"_What is the current state? What has already been tried or decided?_",
		"",
		"## Actions Required",
		"- [ ] ",
		"- [ ] ",
		"- [ ] ",
		"",
		"## Deliverables",
		"_List what needs to be produced (email draft, document, ticket, etc.):_",
		"- ",
		"",
		"## Done When",
		"- ",
		"",
		"## Notes",
	)
	if card.Note != "" {
		lines = append(lines, card.Note)
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
