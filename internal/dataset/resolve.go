// Package dataset locates and parses the fixed study datasets. Filenames in
// the data directory contain Korean characters whose on-disk bytes may be
// precomposed (NFC, typical on Linux) or decomposed (NFD, typical when the
// files were copied from macOS). Resolution normalizes both sides to NFC
// before comparing, so either encoding is found.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// ResolveFile searches the immediate children of dir for an entry whose
// NFC-normalized name equals the NFC-normalized target. It returns the full
// path of the first match in enumeration order. A missing entry is a valid
// outcome (ok == false), not an error; the error return is reserved for a
// directory that cannot be listed at all.
//
// If several entries normalize to the same name (possible on case-mangling
// or mixed-normalization filesystems) the first one enumerated wins.
func ResolveFile(dir, target string) (path string, ok bool, err error) {
	want := norm.NFC.String(target)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, fmt.Errorf("listing %s: %w", dir, err)
	}

	for _, entry := range entries {
		if norm.NFC.String(entry.Name()) == want {
			return filepath.Join(dir, entry.Name()), true, nil
		}
	}
	return "", false, nil
}
