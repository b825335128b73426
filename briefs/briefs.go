// Package briefs generates standalone brief documents from board cards.
package briefs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"boardd/domain"
	"boardd/storage"
)

var (
	briefNamePattern = regexp.MustCompile(`^brief_(\d+)`)
	separatorRuns    = regexp.MustCompile(`[\s_]+`)
)

// Writer creates brief documents inside the vault's briefs directory and
// hands back wiki links to them.
type Writer struct {
	dirs func() (vaultDir, relDir string)
	log  *log.Logger
}

// NewWriter creates a Writer. relDir is the briefs directory relative to the
// vault root (it also forms the wiki link prefix).
func NewWriter(vaultDir, relDir string, logger *log.Logger) *Writer {
	return NewDynamicWriter(func() (string, string) { return vaultDir, relDir }, logger)
}

// NewDynamicWriter creates a Writer that resolves its directories on every
// call, tracking configuration changes.
func NewDynamicWriter(dirs func() (string, string), logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Writer{dirs: dirs, log: logger}
}

// Create renders a brief for the card, writes it atomically under the briefs
// directory, and returns the wiki link (without the .md extension). labelFor
// resolves a function key to its display label.
func (w *Writer) Create(card domain.Card, labelFor func(string) string) (string, error) {
	vaultDir, relDir := w.dirs()
	dir := filepath.Join(vaultDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create briefs dir: %w", err)
	}

	num, err := nextNumber(dir)
	if err != nil {
		return "", err
	}
	slug := Slugify(card.Title)
	if slug == "" {
		slug = "untitled"
	}
	name := fmt.Sprintf("brief_%02d_%s.md", num, slug)

	content := Render(card, labelFor, time.Now())
	if err := storage.WriteAtomic(filepath.Join(dir, name), []byte(content)); err != nil {
		return "", err
	}
	w.log.WithField("brief", name).Info("brief created")

	stem := strings.TrimSuffix(name, ".md")
	return "[[" + path.Join(relDir, stem) + "]]", nil
}

// nextNumber returns one past the highest brief_N number present in dir, or 1
// when the directory holds no briefs.
func nextNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("scan briefs dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	highest := 0
	for _, name := range names {
		m := briefNamePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// Slugify folds a title to a filename-safe slug: ASCII only, lowercase, word
// characters and hyphens, capped at 60 bytes.
func Slugify(text string) string {
	folded := make([]rune, 0, len(text))
	for _, r := range norm.NFKD.String(text) {
		if r < 128 {
			folded = append(folded, r)
		} else if unicode.Is(unicode.Mn, r) {
			continue // combining mark left over from decomposition
		}
	}
	var b strings.Builder
	for _, r := range strings.ToLower(string(folded)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}
	slug := separatorRuns.ReplaceAllString(b.String(), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}
