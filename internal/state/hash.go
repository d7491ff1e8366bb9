package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// HashTree computes a deterministic hash over the given directory trees.
// Two states hash equal exactly when every regular file has the same
// relative path and content; timestamps and permission bits do not count.
// Missing roots contribute nothing, so a not-yet-created directory does not
// change the result.
func HashTree(roots ...string) (string, error) {
	var entries []string

	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			fileHash, err := hashFile(path)
			if err != nil {
				return err
			}
			entries = append(entries, fmt.Sprintf("%s|%s|%s", filepath.Base(root), filepath.ToSlash(rel), fileHash))
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("hash tree %s: %w", root, err)
		}
	}

	if len(entries) == 0 {
		// Empty set has a known hash.
		h := sha256.Sum256([]byte("empty-input-set"))
		return hex.EncodeToString(h[:]), nil
	}

	sort.Strings(entries)

	h := sha256.New()
	for _, entry := range entries {
		h.Write([]byte(entry))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- hashing the user's own input tree
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
