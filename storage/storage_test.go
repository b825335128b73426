package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"boardd/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "Notes", "Board.md"), nil)
}

func TestReadAbsentDocument(t *testing.T) {
	s := newTestStore(t)
	b, mtime, err := s.Read()
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if b != nil {
		t.Fatalf("expected nil board for absent document, got %#v", b)
	}
	if !mtime.IsZero() {
		t.Fatalf("expected zero mtime for absent document, got %v", mtime)
	}
}

func TestWriteCreatesParentDirsAndReadsBack(t *testing.T) {
	s := newTestStore(t)
	want := domain.DefaultBoard()

	if _, err := s.Write(want); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, mtime, err := s.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mtime.IsZero() {
		t.Fatal("expected non-zero mtime after write")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("board changed across write/read (-want +got):\n%s", diff)
	}
}

func TestLastWriteWins(t *testing.T) {
	s := newTestStore(t)

	first := domain.NewBoard()
	first.Columns["now"] = []domain.Card{{Title: "first", Priority: "medium"}}
	second := domain.NewBoard()
	second.Columns["now"] = []domain.Card{{Title: "second", Priority: "medium"}}

	if _, err := s.Write(first); err != nil {
		t.Fatalf("first write: %v", err)
	}
	start := time.Now()
	mtime, err := s.Write(second)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, readMtime, err := s.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Columns["now"][0].Title != "second" {
		t.Fatalf("expected second write to win, got %q", got.Columns["now"][0].Title)
	}
	if readMtime.Before(mtime) {
		t.Fatalf("read mtime %v precedes write mtime %v", readMtime, mtime)
	}
	// Filesystem timestamps can be coarse; allow a second of slack.
	if mtime.Before(start.Add(-time.Second)) {
		t.Fatalf("write mtime %v earlier than write start %v", mtime, start)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Write(domain.NewBoard()); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the board file, got %d entries", len(entries))
	}
}

func TestReadRejectsUndecodableDocument(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte{0xff, 0xfe, 0x00, 0x80}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Read(); err == nil {
		t.Fatal("expected error for undecodable document")
	}
}

func TestWatcherNotifiesOnAtomicReplace(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Write(domain.NewBoard()); err != nil {
		t.Fatalf("initial write: %v", err)
	}

	w, err := NewWatcher(s.Path(), nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Close()

	sub := w.Subscribe()
	defer w.Unsubscribe(sub)

	b := domain.NewBoard()
	b.Columns["now"] = []domain.Card{{Title: "edited", Priority: "medium"}}
	if _, err := s.Write(b); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-sub:
	case <-time.After(3 * time.Second):
		t.Fatal("expected change notification after atomic replace")
	}
}

func TestWatcherCoalescesEditBursts(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Write(domain.NewBoard()); err != nil {
		t.Fatalf("initial write: %v", err)
	}

	w, err := NewWatcher(s.Path(), nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.debounce = 150 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Close()

	sub := w.Subscribe()
	defer w.Unsubscribe(sub)

	if _, err := s.Write(domain.NewBoard()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	beforeSecond := time.Now()
	b := domain.NewBoard()
	b.Columns["now"] = []domain.Card{{Title: "final", Priority: "medium"}}
	if _, err := s.Write(b); err != nil {
		t.Fatalf("second write: %v", err)
	}

	var at time.Time
	select {
	case at = <-sub:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a notification after the burst settled")
	}
	// The notification must trail the last change of the burst, not fire on
	// the first event and swallow the rest.
	if at.Before(beforeSecond) {
		t.Fatalf("notification time %v precedes the burst's last write %v", at, beforeSecond)
	}
}

func TestWatcherCloseAfterFailedStart(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "Board.md")
	w, err := NewWatcher(missing, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Fatal("expected start to fail for a missing directory")
	}

	closed := make(chan error, 1)
	go func() { closed <- w.Close() }()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close must not block when the watcher never started")
	}
}
