// Package fileutil provides the file copy primitive used when a move cannot
// be a same-volume rename.
package fileutil

import (
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst, preserving the source file mode. A partial
// destination is removed on failure so a failed copy never leaves a
// truncated file behind.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}
