// Package hashutil computes the 64-bit FNV-1a content hash used throughout
// easy-make to detect whether a file's bytes have changed between builds.
package hashutil

import (
	"hash/fnv"
	"io"
	"os"
)

// ContentHash is a 64-bit FNV-1a hash over the raw bytes of a file.
// hash/fnv's New64a uses the exact offset-basis (0xcbf29ce484222325) and
// prime (0x100000001b3) spec'd for this hash.
type ContentHash uint64

// HashBytes returns the FNV-1a hash of data.
func HashBytes(data []byte) ContentHash {
	h := fnv.New64a()
	_, _ = h.Write(data) // hash.Hash.Write never returns an error
	return ContentHash(h.Sum64())
}

// HashFile opens path and hashes every byte it contains. It returns an
// error if the file cannot be opened or read.
func HashFile(path string) (ContentHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := fnv.New64a()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return ContentHash(h.Sum64()), nil
}
