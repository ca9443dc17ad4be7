package cli

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/pontos/internal/fs"

	"github.com/google/go-cmp/cmp"
)

// memHistory stores one entry per line, like the liner history format.
type memHistory struct{ lines []string }

func (h *memHistory) ReadHistory(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		h.lines = append(h.lines, sc.Text())
	}

	return len(h.lines), sc.Err()
}

func (h *memHistory) WriteHistory(w io.Writer) (int, error) {
	for i, line := range h.lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return i, err
		}
	}

	return len(h.lines), nil
}

func TestHistoryRoundTripsThroughFS(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", HistoryFileName)
	saved := &memHistory{lines: []string{"summary", "set mar 1 7"}}

	if err := saveHistory(fs.NewReal(), path, saved); err != nil {
		t.Fatalf("saveHistory: %v", err)
	}

	loaded := &memHistory{}
	if err := loadHistory(fs.NewReal(), path, loaded); err != nil {
		t.Fatalf("loadHistory: %v", err)
	}

	if diff := cmp.Diff(saved.lines, loaded.lines); diff != "" {
		t.Errorf("history mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadHistoryIgnoresMissingFile(t *testing.T) {
	t.Parallel()

	h := &memHistory{}
	if err := loadHistory(fs.NewReal(), filepath.Join(t.TempDir(), HistoryFileName), h); err != nil {
		t.Fatalf("loadHistory: %v", err)
	}

	if len(h.lines) != 0 {
		t.Errorf("lines=%v, want none", h.lines)
	}
}

func TestHistoryReportsFilesystemFailures(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), HistoryFileName)
	faulty := fs.NewFaulty(fs.NewReal())

	if err := saveHistory(fs.NewReal(), path, &memHistory{lines: []string{"tasks"}}); err != nil {
		t.Fatalf("saveHistory: %v", err)
	}

	faulty.Fail(fs.OpWrite, nil)

	if err := saveHistory(faulty, path, &memHistory{lines: []string{"show"}}); !fs.IsInjected(err) {
		t.Errorf("saveHistory err=%v, want injected write error", err)
	}

	faulty.Fail(fs.OpReadFile, nil)

	if err := loadHistory(faulty, path, &memHistory{}); !fs.IsInjected(err) {
		t.Errorf("loadHistory err=%v, want injected read error", err)
	}

	faulty.Heal(fs.OpReadFile)

	h := &memHistory{}
	if err := loadHistory(faulty, path, h); err != nil {
		t.Fatalf("loadHistory after heal: %v", err)
	}

	if diff := cmp.Diff([]string{"tasks"}, h.lines); diff != "" {
		t.Errorf("failed save changed the file (-want +got):\n%s", diff)
	}
}
