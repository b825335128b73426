package board

import (
	"strings"

	"boardd/domain"
)

const (
	documentTitle = "# Board"

	fallbackIcon  = "🎯"
	fallbackColor = "#1F1F1F"
)

// columnHeadings fixes the canonical serialization order of the four columns.
var columnHeadings = []struct{ key, title string }{
	{"now", "Now"},
	{"next", "Next Up"},
	{"waiting", "Waiting"},
	{"done", "Done"},
}

// Serialize renders the model back to canonical document text. Section and
// card-field order are fixed regardless of how the model was produced, so
// re-parsing a freshly serialized document reproduces the same model.
func Serialize(b *domain.Board) string {
	lines := []string{documentTitle, ""}

	lines = append(lines, "## Pillars")
	for _, p := range b.Pillars {
		icon := p.Icon
		if icon == "" {
			icon = fallbackIcon
		}
		line := "- " + icon + " " + p.Name + " | " + orFallback(p.Color)
		if p.Desc != "" {
			line += " | " + p.Desc
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")

	lines = append(lines, "## Team")
	for _, o := range b.Owners {
		lines = append(lines, "- "+o.Name+" | "+o.Initials+" | "+orFallback(o.Color))
	}
	lines = append(lines, "")

	lines = append(lines, "## Functions")
	for _, f := range b.Functions {
		lines = append(lines, "- "+f.Key+" | "+f.Label+" | "+orFallback(f.Color))
	}
	lines = append(lines, "")

	for _, col := range columnHeadings {
		lines = append(lines, "## "+col.title)
		for _, c := range b.Columns[col.key] {
			lines = append(lines, serializeCard(c))
			if c.NextAction != "" {
				lines = append(lines, "  >> "+c.NextAction)
			}
			if c.Note != "" {
				for _, noteLine := range strings.Split(c.Note, "\n") {
					lines = append(lines, "  "+noteLine)
				}
			}
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func serializeCard(c domain.Card) string {
	parts := []string{"- **" + c.Title + "**"}

	if c.Priority != "" && c.Priority != domain.PriorityMedium {
		parts = append(parts, "["+c.Priority+"]")
	}
	if c.Owner != "" {
		parts = append(parts, "@"+c.Owner)
	}
	if c.Fn != "" {
		parts = append(parts, "#"+c.Fn)
	}
	if c.Pillar != "" {
		parts = append(parts, ">"+c.Pillar)
	}
	if c.Due != "" {
		parts = append(parts, "!"+c.Due)
	}
	if c.MovedAt != "" {
		parts = append(parts, "^"+c.MovedAt)
	}
	if c.Link != "" {
		link := c.Link
		if !strings.HasPrefix(link, "[[") {
			link = "[[" + link + "]]"
		}
		parts = append(parts, link)
	}

	return strings.Join(parts, " ")
}

func orFallback(color string) string {
	if color == "" {
		return fallbackColor
	}
	return color
}
