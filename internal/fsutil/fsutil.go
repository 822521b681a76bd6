// Package fsutil provides the atomic-write and hashing primitives shared by
// LocalStore and Lockfile. The write discipline mirrors the teacher's
// internal/fs.RenameWithFallback: write into a sibling temp file, then
// rename into place, so a reader never observes a partially written file.
package fsutil

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// WriteFileAtomic creates parent directories as needed, writes data to a
// temp file beside path, then renames the temp file onto path. A crash or
// cancellation between the write and the rename leaves path untouched; a
// crash after the rename leaves path fully written. path is never observed
// partially written.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating parent directory of %s", path)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrapf(err, "writing temp file for %s", path)
	}

	if err := renameWithFallback(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "committing atomic write to %s", path)
	}

	return nil
}

// renameWithFallback attempts os.Rename, falling back to copy-then-remove
// on a cross-device link error, matching the teacher's
// internal/fs.RenameWithFallback.
func renameWithFallback(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if lerr, ok := err.(*os.LinkError); !ok || lerr.Err != syscall.EXDEV {
		return err
	}

	data, rerr := os.ReadFile(src)
	if rerr != nil {
		return errors.Wrapf(err, "rename failed and fallback read of %s failed: %s", src, rerr)
	}
	if werr := os.WriteFile(dst, data, 0o644); werr != nil {
		return errors.Wrapf(werr, "rename fallback: copying %s to %s", src, dst)
	}
	return os.Remove(src)
}

// ReadFileIfExists returns the contents of path, or nil data with a nil
// error if path does not exist.
func ReadFileIfExists(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// RemoveEmptyAncestors removes dir and then walks upward removing any
// ancestor directory that becomes empty, stopping at root (exclusive) or at
// the first non-empty directory encountered.
func RemoveEmptyAncestors(root, dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "removing %s", dir)
	}

	cur := filepath.Dir(dir)
	for {
		rel, err := filepath.Rel(root, cur)
		if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) {
			return nil
		}

		entries, err := os.ReadDir(cur)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.Wrapf(err, "reading %s", cur)
		}
		if len(entries) > 0 {
			return nil
		}

		if err := os.Remove(cur); err != nil {
			return errors.Wrapf(err, "removing empty directory %s", cur)
		}

		cur = filepath.Dir(cur)
	}
}

// SHA256Hex returns the lowercase hex-encoded SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
