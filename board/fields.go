package board

import (
	"regexp"
	"strings"

	"boardd/domain"
)

// Card-line grammar. Sigils overlap in character class, so extraction runs as
// a fixed priority order of scans, each removing its matched span from the
// residual text before the next scan. Dates and bracketed tokens go first so
// looser sigil scans never swallow them; the title goes last so the bold span
// is isolated in the maximally reduced residue.
var (
	movedAtPattern  = regexp.MustCompile(`\^(\d{4}-\d{2}-\d{2})`)
	duePattern      = regexp.MustCompile(`!(\d{4}-\d{2}-\d{2})`)
	linkPattern     = regexp.MustCompile(`\[\[(.+?)\]\]`)
	priorityPattern = regexp.MustCompile(`(?i)\[(high|medium|low)\]`)
	fnPattern       = regexp.MustCompile(`#(\S+)`)
	pillarPattern   = regexp.MustCompile(`>([^*]+)`)
	titlePattern    = regexp.MustCompile(`\*\*(.+?)\*\*`)

	// RE2 has no lookahead, so the sigil boundary after the owner name is
	// captured instead and kept in the residual text on removal.
	ownerPattern = regexp.MustCompile(`@(\S+(?:\s+\S+)*?)(\s+[#>@\[]|$)`)
)

// cutMatch returns the first capture of re in text and the text with the whole
// match removed.
func cutMatch(re *regexp.Regexp, text string) (string, string, bool) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}
	value := text[loc[2]:loc[3]]
	return value, text[:loc[0]] + text[loc[1]:], true
}

// parseCardLine extracts a card from one list-item body (leading "- " already
// stripped). Fields that fail to match stay at their defaults; there is no
// invalid card, only a maximally extracted one.
func parseCardLine(text string) domain.Card {
	card := domain.Card{Priority: domain.PriorityMedium}

	if v, rest, ok := cutMatch(movedAtPattern, text); ok {
		card.MovedAt = v
		text = rest
	}
	if v, rest, ok := cutMatch(duePattern, text); ok {
		card.Due = v
		text = rest
	}
	if v, rest, ok := cutMatch(linkPattern, text); ok {
		card.Link = "[[" + v + "]]"
		text = rest
	}
	if v, rest, ok := cutMatch(priorityPattern, text); ok {
		card.Priority = strings.ToLower(v)
		text = rest
	}
	if loc := ownerPattern.FindStringSubmatchIndex(text); loc != nil {
		card.Owner = strings.TrimSpace(text[loc[2]:loc[3]])
		// Remove the "@name" span only; the boundary sigil stays for the
		// scans that follow.
		text = text[:loc[0]] + text[loc[4]:]
	}
	if v, rest, ok := cutMatch(fnPattern, text); ok {
		card.Fn = v
		text = rest
	}
	if v, rest, ok := cutMatch(pillarPattern, text); ok {
		card.Pillar = strings.TrimSpace(v)
		text = rest
	}
	if m := titlePattern.FindStringSubmatch(text); m != nil {
		card.Title = strings.TrimSpace(m[1])
	} else {
		// Hand-edited line without bold markers: whatever survived the
		// scans above is the title.
		card.Title = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), "-"))
	}
	return card
}

// parsePillarLine parses "<icon> <name> | <color> | <desc>". Fewer than two
// pipe parts rejects the entry.
func parsePillarLine(text string) (domain.Pillar, bool) {
	parts := splitPipes(text)
	if len(parts) < 2 {
		return domain.Pillar{}, false
	}
	p := domain.Pillar{Name: parts[0], Color: parts[1]}
	if len(parts) >= 3 {
		p.Desc = parts[2]
	}
	if icon, name, ok := strings.Cut(p.Name, " "); ok && strings.TrimSpace(name) != "" {
		p.Icon = icon
		p.Name = strings.TrimSpace(name)
	}
	return p, true
}

// parseOwnerLine parses "<name> | <initials> | <color>".
func parseOwnerLine(text string) (domain.Owner, bool) {
	parts := splitPipes(text)
	if len(parts) < 2 {
		return domain.Owner{}, false
	}
	o := domain.Owner{Name: parts[0], Initials: parts[1]}
	if len(parts) >= 3 {
		o.Color = parts[2]
	}
	return o, true
}

// parseFunctionLine parses "<key> | <label> | <color>".
func parseFunctionLine(text string) (domain.Function, bool) {
	parts := splitPipes(text)
	if len(parts) < 2 {
		return domain.Function{}, false
	}
	f := domain.Function{Key: parts[0], Label: parts[1]}
	if len(parts) >= 3 {
		f.Color = parts[2]
	}
	return f, true
}

func splitPipes(text string) []string {
	parts := strings.Split(text, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
