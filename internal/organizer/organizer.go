package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"tidy/internal/fileutil"
	"tidy/internal/logging"
)

// Artifacts the organizer writes into the target directory. They are
// recorded as skipped operations and never moved.
const (
	LedgerFileName = "tidy-ledger.json"
	LogFileName    = "tidy.log"
	LockFileName   = ".tidy.lock"
)

// maxCollisionAttempts bounds the "name (n)ext" search so pathological
// directories fail a single file instead of looping forever.
const maxCollisionAttempts = 10000

// Stats aggregates counters for one run. Every counter is derived from the
// ledger: TotalFiles always equals the ledger length.
type Stats struct {
	TotalFiles        int   `json:"total_files"`
	Organized         int   `json:"organized"`
	Skipped           int   `json:"skipped"`
	Failed            int   `json:"failed"`
	CategoriesCreated int   `json:"categories_created"`
	CategoriesPlanned int   `json:"categories_planned"`
	Directories       int   `json:"directories,omitempty"`
	BytesOrganized    int64 `json:"bytes_organized"`
}

func (s *Stats) apply(op Operation, size int64) {
	s.TotalFiles++
	switch op.Status {
	case OutcomeSuccess, OutcomePlanned:
		s.Organized++
		s.BytesOrganized += size
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Options adjusts how a run behaves. The zero value is a shallow real run
// with a no-op logger.
type Options struct {
	// DryRun computes and records planned moves without touching the
	// filesystem.
	DryRun bool
	// Recursive descends into pre-existing subdirectories, flattening
	// their files into category folders at the target root.
	Recursive bool
	// Logger receives run events. Nil means discard.
	Logger *slog.Logger
	// Clock stamps ledger operations; tests inject a fixed time.
	Clock func() time.Time
}

// Organizer classifies the files of one target directory and moves them into
// category subfolders. Each Organizer owns the ledger and statistics of a
// single run; nothing is shared across runs.
type Organizer struct {
	root       string
	categories *CategoryMap
	dryRun     bool
	recursive  bool
	logger     *slog.Logger
	clock      func() time.Time

	created  map[string]struct{}
	planned  map[string]struct{}
	reserved map[string]struct{}
}

// New validates the target directory and builds an organizer. A missing or
// non-directory target fails with ErrPath before anything runs.
func New(targetDir string, categories *CategoryMap, opts Options) (*Organizer, error) {
	abs, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, wrap(ErrPath, "resolve target", targetDir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrap(ErrPath, "validate target", fmt.Sprintf("directory does not exist: %s", abs), nil)
		}
		return nil, wrap(ErrPath, "validate target", abs, err)
	}
	if !info.IsDir() {
		return nil, wrap(ErrPath, "validate target", fmt.Sprintf("not a directory: %s", abs), nil)
	}
	if categories == nil {
		categories, _ = NewCategoryMap(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Organizer{
		root:       abs,
		categories: categories,
		dryRun:     opts.DryRun,
		recursive:  opts.Recursive,
		logger:     logger.With(logging.String("component", "organizer")),
		clock:      clock,
	}, nil
}

// Root returns the absolute target directory.
func (o *Organizer) Root() string { return o.root }

// Run scans the target, classifies every file, and performs (or, in dry-run
// mode, simulates) the moves. Per-file failures are recorded in the ledger
// and never abort the run; the returned error covers only scan failures and
// context cancellation.
func (o *Organizer) Run(ctx context.Context) (*Stats, Ledger, error) {
	o.created = make(map[string]struct{})
	o.planned = make(map[string]struct{})
	o.reserved = make(map[string]struct{})

	o.logger.Info("starting organization",
		logging.String("target", o.root),
		logging.Bool("dry_run", o.dryRun),
		logging.Bool("recursive", o.recursive),
	)

	entries, dirs, err := o.snapshot()
	if err != nil {
		return nil, nil, err
	}
	o.logger.Info("scan complete", logging.Int("files", len(entries)), logging.Int("directories", dirs))

	stats := &Stats{Directories: dirs}
	ledger := make(Ledger, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return stats, ledger, err
		}
		op := o.moveOne(entry)
		ledger = append(ledger, op)
		stats.apply(op, entry.Size)
	}
	stats.CategoriesCreated = len(o.created)
	stats.CategoriesPlanned = len(o.planned)

	o.logger.Info("organization complete",
		logging.Int("total", stats.TotalFiles),
		logging.Int("organized", stats.Organized),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
		logging.Int("categories_created", stats.CategoriesCreated),
	)
	return stats, ledger, nil
}

// moveOne classifies entry, resolves its destination, and performs or
// simulates the move. It always returns a fully populated Operation.
func (o *Organizer) moveOne(entry FileEntry) Operation {
	op := Operation{Timestamp: o.clock(), Action: "move", Source: entry.Path}
	name := filepath.Base(entry.Path)

	if entry.Dir == o.root && IsArtifact(name) {
		op.Destination = entry.Path
		op.Status = OutcomeSkipped
		return op
	}

	category := o.categories.Classify(name)
	op.Category = category
	destDir := filepath.Join(o.root, category)
	candidate := filepath.Join(destDir, name)

	if candidate == entry.Path {
		op.Destination = entry.Path
		op.Status = OutcomeSkipped
		o.logger.Debug("already organized", logging.String("path", entry.Path))
		return op
	}

	if o.dryRun {
		return o.planMove(op, destDir, category, candidate)
	}

	createdDir, err := o.ensureCategoryDir(destDir)
	if err != nil {
		return o.fail(op, candidate, "create category folder", err)
	}
	if createdDir {
		o.created[category] = struct{}{}
		o.logger.Info("created category folder", logging.String("category", category))
	}

	dest, err := o.resolveCollision(candidate)
	if err != nil {
		return o.fail(op, candidate, "resolve collision", err)
	}
	op.Destination = dest

	if err := o.rename(entry.Path, dest); err != nil {
		return o.fail(op, dest, "move file", err)
	}
	op.Status = OutcomeSuccess
	o.logger.Info("moved file",
		logging.String("file", name),
		logging.String("category", category),
	)
	return op
}

// planMove records what a real run would do, reserving the predicted
// destination so later files in the same pass collide the same way.
func (o *Organizer) planMove(op Operation, destDir, category, candidate string) Operation {
	if _, err := os.Stat(destDir); errors.Is(err, fs.ErrNotExist) {
		o.planned[category] = struct{}{}
	}
	dest, err := o.resolveCollision(candidate)
	if err != nil {
		return o.fail(op, candidate, "resolve collision", err)
	}
	o.reserved[dest] = struct{}{}
	op.Destination = dest
	op.Status = OutcomePlanned
	o.logger.Info("would move file",
		logging.String("file", filepath.Base(op.Source)),
		logging.String("category", category),
	)
	return op
}

func (o *Organizer) fail(op Operation, dest, action string, err error) Operation {
	op.Destination = dest
	op.Status = OutcomeFailed
	op.Error = err.Error()
	o.logger.Error("operation failed",
		logging.String("file", filepath.Base(op.Source)),
		logging.String("action", action),
		logging.Error(err),
	)
	return op
}

// ensureCategoryDir creates dir if needed and reports whether it was newly
// created, so created-category counting stays once per category.
func (o *Organizer) ensureCategoryDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	return true, nil
}

// resolveCollision returns path unchanged when free, otherwise the first
// unused "name (n)ext" variant. It never overwrites an existing file.
func (o *Organizer) resolveCollision(path string) (string, error) {
	if !o.occupied(path) {
		return path, nil
	}
	// Slice the suffix by length: ExtensionOf lowercases, and the inserted
	// counter must preserve the extension exactly as the file spells it.
	base, ext := path, ExtensionOf(filepath.Base(path))
	if ext != "" {
		base, ext = path[:len(path)-len(ext)], path[len(path)-len(ext):]
	}
	for n := 1; n <= maxCollisionAttempts; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if !o.occupied(candidate) {
			return candidate, nil
		}
	}
	return "", wrap(ErrCollisionExhausted, "resolve collision", path, nil)
}

func (o *Organizer) occupied(path string) bool {
	if _, reserved := o.reserved[path]; reserved {
		return true
	}
	// Lstat: a symlink occupies its name even when the link is dangling,
	// and a rename over it would destroy the link.
	_, err := os.Lstat(path)
	return err == nil
}

// rename moves src to dst, falling back to copy-and-remove when the
// destination sits on a different volume.
func (o *Organizer) rename(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := fileutil.CopyFile(src, dst); copyErr != nil {
			return copyErr
		}
		if rmErr := os.Remove(src); rmErr != nil {
			o.logger.Warn("source not removed after cross-volume copy", logging.Error(rmErr))
		}
		return nil
	}
	return err
}

// IsArtifact reports whether name is one of the files the organizer itself
// writes into the target directory.
func IsArtifact(name string) bool {
	switch name {
	case LedgerFileName, LogFileName, LockFileName:
		return true
	}
	return false
}
