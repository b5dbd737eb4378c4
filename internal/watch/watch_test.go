package watch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidy/internal/organizer"
)

func newWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	categories, err := organizer.NewCategoryMap([]organizer.Rule{
		{Name: "Images", Extensions: []string{".jpg"}},
	})
	if err != nil {
		t.Fatalf("NewCategoryMap: %v", err)
	}
	w, err := New(root, categories, time.Second, nil, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestShouldProcess(t *testing.T) {
	root := t.TempDir()
	w := newWatcher(t, root)

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"new download", filepath.Join(root, "photo.jpg"), true},
		{"unmatched file", filepath.Join(root, "mystery.xyz"), true},
		{"own move into category", filepath.Join(root, "Images", "photo.jpg"), false},
		{"category folder itself", filepath.Join(root, "Images"), false},
		{"others folder", filepath.Join(root, organizer.CategoryOthers), false},
		{"ledger artifact", filepath.Join(root, organizer.LedgerFileName), false},
		{"log artifact", filepath.Join(root, organizer.LogFileName), false},
		{"lock artifact", filepath.Join(root, organizer.LockFileName), false},
		{"nested path", filepath.Join(root, "sub", "deep.jpg"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.shouldProcess(tc.path); got != tc.want {
				t.Fatalf("shouldProcess(%s) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestRelevantFiltersOps(t *testing.T) {
	root := t.TempDir()
	w := newWatcher(t, root)
	path := filepath.Join(root, "photo.jpg")

	cases := []struct {
		op   fsnotify.Op
		want bool
	}{
		{fsnotify.Create, true},
		{fsnotify.Rename, true},
		{fsnotify.Write, false},
		{fsnotify.Chmod, false},
		{fsnotify.Remove, false},
	}
	for _, tc := range cases {
		event := fsnotify.Event{Name: path, Op: tc.op}
		if got := w.relevant(event); got != tc.want {
			t.Errorf("relevant(%v) = %v, want %v", tc.op, got, tc.want)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	w, err := New(t.TempDir(), nil, 0, nil, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.settle != 500*time.Millisecond {
		t.Fatalf("settle default = %v, want 500ms", w.settle)
	}
	if w.categories == nil || w.logger == nil {
		t.Fatal("nil categories or logger should be defaulted")
	}
}
