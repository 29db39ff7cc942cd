// Package fileutil holds the filesystem helpers shared by the pipeline:
// removal policies for originals and temp directories and moves that
// survive crossing filesystems.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Bios-Marcel/wastebasket/v2"
)

// Policy decides what happens to a path that is no longer needed.
type Policy string

const (
	PolicyNone   Policy = "none"
	PolicyDelete Policy = "delete"
	PolicyTrash  Policy = "trash"
)

// ParsePolicy accepts delete, trash, or none. Empty means none.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyNone:
		return PolicyNone, nil
	case PolicyDelete:
		return PolicyDelete, nil
	case PolicyTrash:
		return PolicyTrash, nil
	default:
		return "", fmt.Errorf("unknown removal policy %q (want delete, trash, or none)", value)
	}
}

// RemovePath applies policy to path. A missing path is not an error.
func RemovePath(path string, policy Policy) error {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	switch policy {
	case PolicyDelete:
		return os.RemoveAll(path)
	case PolicyTrash:
		if err := wastebasket.Trash(path); err != nil {
			return fmt.Errorf("move %s to trash: %w", path, err)
		}
		return nil
	default:
		return nil
	}
}

// MoveFile renames src to dst, falling back to copy and delete when the two
// paths are on different filesystems. Directories are copied recursively.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := copyTree(src, dst); err != nil {
			_ = os.RemoveAll(dst)
			return err
		}
		return os.RemoveAll(src)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type().IsRegular():
			return CopyFileMode(path, target, info.Mode().Perm())
		default:
			return nil
		}
	})
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CopyFileVerified streams src to dst, then re-reads dst from disk and
// compares its size and SHA-256 with what was read from src. dst is removed
// on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	if _, err := io.Copy(out, io.TeeReader(in, srcHasher)); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := verifyCopy(dst, srcInfo.Size(), srcHasher.Sum(nil)); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// verifyCopy checks the file at path against the expected size and digest.
func verifyCopy(path string, size int64, digest []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen copy: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	n, err := io.Copy(hasher, f)
	if err != nil {
		return fmt.Errorf("read back copy: %w", err)
	}
	if n != size {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", size, n)
	}
	if !bytes.Equal(hasher.Sum(nil), digest) {
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
