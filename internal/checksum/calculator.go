package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// ErrUnknownAlgorithm is returned by New for unsupported names.
var ErrUnknownAlgorithm = fmt.Errorf("unknown checksum algorithm")

// Calculator computes a digest of a content stream.
type Calculator interface {
	// Name returns the algorithm name used in reports.
	Name() string

	// Sum reads r to the end and returns the hex encoded digest.
	Sum(r io.Reader) (string, error)
}

// SHA256 computes SHA-256 digests.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// XXHash computes 64-bit xxHash digests.
//
// XXHash is a zero-size type and is safe for concurrent use by multiple goroutines.
type XXHash struct{}

// New returns the calculator registered under name.
func New(name string) (Calculator, error) {
	switch name {
	case "sha256":
		return SHA256{}, nil
	case "xxhash", "":
		return XXHash{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func (SHA256) Name() string { return "sha256" }

func (SHA256) Sum(r io.Reader) (string, error) {
	return sum(sha256.New(), r)
}

func (XXHash) Name() string { return "xxhash" }

func (XXHash) Sum(r io.Reader) (string, error) {
	return sum(xxhash.New(), r)
}

func sum(h hash.Hash, r io.Reader) (string, error) {
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumFile opens path through o and digests its content.
func SumFile(o fts.ContentOpener, path string, c Calculator) (string, error) {
	rc, err := o.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	digest, err := c.Sum(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return digest, nil
}
