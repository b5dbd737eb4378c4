package organizer

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileEntry is a discovered regular file awaiting classification.
type FileEntry struct {
	Path string // absolute path
	Dir  string // containing directory
	Ext  string // lowercase extension with leading dot, or ""
	Size int64
}

// snapshot enumerates every file to process before any mutation happens, so
// the run never observes directories it creates itself. It returns the
// entries and, in recursive mode, the number of subdirectories walked.
//
// Recursive mode descends into pre-existing subdirectories but excludes
// root-level directories whose name matches a category: those are the
// organizer's output folders (from this run or an earlier one) and
// re-entering them would re-organize already-organized files.
func (o *Organizer) snapshot() ([]FileEntry, int, error) {
	listing, err := os.ReadDir(o.root)
	if err != nil {
		return nil, 0, wrap(ErrPath, "read target directory", o.root, err)
	}

	var entries []FileEntry
	dirs := 0

	if o.recursive {
		for _, child := range listing {
			if !child.IsDir() || o.categories.IsCategory(child.Name()) {
				continue
			}
			n, err := o.collectTree(filepath.Join(o.root, child.Name()), &entries)
			if err != nil {
				return nil, 0, wrap(ErrPath, "walk subdirectory", child.Name(), err)
			}
			dirs += n
		}
	}

	for _, child := range listing {
		if !child.Type().IsRegular() {
			continue
		}
		info, err := child.Info()
		if err != nil {
			// Deleted between listing and stat; nothing to organize.
			continue
		}
		entries = append(entries, FileEntry{
			Path: filepath.Join(o.root, child.Name()),
			Dir:  o.root,
			Ext:  ExtensionOf(child.Name()),
			Size: info.Size(),
		})
	}
	return entries, dirs, nil
}

// collectTree appends every regular file under dir and returns the number of
// directories visited. Unreadable subtrees are skipped rather than aborting
// the scan.
func (o *Organizer) collectTree(dir string, entries *[]FileEntry) (int, error) {
	dirs := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}
		if d.IsDir() {
			dirs++
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		*entries = append(*entries, FileEntry{
			Path: path,
			Dir:  filepath.Dir(path),
			Ext:  ExtensionOf(d.Name()),
			Size: info.Size(),
		})
		return nil
	})
	return dirs, err
}
