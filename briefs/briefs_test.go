package briefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"boardd/domain"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Resolve Spanish customs import block", "resolve-spanish-customs-import-block"},
		{"Fix  double  spaces", "fix-double-spaces"},
		{"Crème brûlée café", "creme-brulee-cafe"},
		{"under_scored_title", "under-scored-title"},
		{"--trim me--", "trim-me"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("abcde ", 30)
	if got := Slugify(long); len(got) > 60 {
		t.Fatalf("slug too long: %d bytes", len(got))
	}
}

func TestRenderBrief(t *testing.T) {
	card := domain.Card{
		Title:    "Resolve customs block",
		Owner:    "Roy",
		Fn:       "fulfillment",
		Priority: "high",
		Due:      "2025-04-01",
		Note:     "Call the forwarder.",
	}
	today := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	text := Render(card, LabelLookup(nil), today)

	for _, want := range []string{
		"# Resolve customs block",
		"## Objective",
		"## Context",
		"- **Owner:** Roy",
		"- **Function:** Fulfillment / Shipping",
		"- **Priority:** High",
		"- **Due:** 2025-04-01",
		"- **Created:** 2025-03-20",
		"## Current Situation",
		"## Actions Required",
		"## Deliverables",
		"## Done When",
		"## Notes",
		"Call the forwarder.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("brief missing %q:\n%s", want, text)
		}
	}
}

func TestRenderBriefOmitsEmptyContextBullets(t *testing.T) {
	text := Render(domain.Card{Title: "Bare"}, LabelLookup(nil), time.Now())
	if strings.Contains(text, "**Owner:**") || strings.Contains(text, "**Function:**") || strings.Contains(text, "**Due:**") {
		t.Fatalf("empty fields must not produce bullets:\n%s", text)
	}
	if !strings.Contains(text, "- **Priority:** Medium") {
		t.Fatalf("priority defaults to medium:\n%s", text)
	}
}

func TestLabelLookupPrefersBoardFunctions(t *testing.T) {
	lookup := LabelLookup([]domain.Function{{Key: "ops", Label: "Board Ops"}})
	if got := lookup("ops"); got != "Board Ops" {
		t.Fatalf("board function label should win, got %q", got)
	}
	if got := lookup("marketing"); got != "Marketing" {
		t.Fatalf("builtin fallback broken, got %q", got)
	}
	if got := lookup("custom"); got != "Custom" {
		t.Fatalf("capitalized key fallback broken, got %q", got)
	}
	if got := lookup(""); got != "" {
		t.Fatalf("empty key must yield empty label, got %q", got)
	}
}

func TestCreateNumbersSequentially(t *testing.T) {
	vault := t.TempDir()
	w := NewWriter(vault, "Notes/Briefs", nil)

	link1, err := w.Create(domain.Card{Title: "First brief"}, LabelLookup(nil))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if link1 != "[[Notes/Briefs/brief_01_first-brief]]" {
		t.Fatalf("unexpected link: %q", link1)
	}

	link2, err := w.Create(domain.Card{Title: "Second brief"}, LabelLookup(nil))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if link2 != "[[Notes/Briefs/brief_02_second-brief]]" {
		t.Fatalf("unexpected link: %q", link2)
	}

	entries, err := os.ReadDir(filepath.Join(vault, "Notes", "Briefs"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 briefs, got %d", len(entries))
	}
}

func TestCreateSkipsPastHighestNumber(t *testing.T) {
	vault := t.TempDir()
	dir := filepath.Join(vault, "Notes", "Briefs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "brief_07_existing.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(vault, "Notes/Briefs", nil)
	link, err := w.Create(domain.Card{Title: "Next"}, LabelLookup(nil))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if link != "[[Notes/Briefs/brief_08_next]]" {
		t.Fatalf("expected numbering to continue from highest, got %q", link)
	}
}

func TestCreateUntitledFallback(t *testing.T) {
	w := NewWriter(t.TempDir(), "Briefs", nil)
	link, err := w.Create(domain.Card{}, LabelLookup(nil))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if link != "[[Briefs/brief_01_untitled]]" {
		t.Fatalf("unexpected link: %q", link)
	}
}
