package iogeo

import (
	"os"
)

// clearCache removes all files from the cache directory and recreates it.
//
// Cache lifecycle:
//   - cleared at the start of every fetch
//   - keeps the files of the most recent fetch only
//   - useful for inspecting files of a failed parse
func clearCache(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return CacheError(dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CacheError(dir, err)
	}
	return nil
}
