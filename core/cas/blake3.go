// Package cas computes content digests of fla sources and rendered output,
// so tools can tell whether a file already holds a given rendering without
// comparing buffers byte by byte.
package cas

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a hex-encoded BLAKE3-256 hash.
type Digest string

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) Digest {
	h := blake3.Sum256(data)
	return Digest(hex.EncodeToString(h[:]))
}

// Short returns the first 12 hex digits, for log lines.
func (d Digest) Short() string {
	if len(d) <= 12 {
		return string(d)
	}
	return string(d[:12])
}

// Comparison records the digests of a file and of its rendering.
type Comparison struct {
	Source   Digest
	Rendered Digest
}

// Compare hashes both buffers.
func Compare(source, rendered []byte) Comparison {
	return Comparison{
		Source:   Blake3Hash(source),
		Rendered: Blake3Hash(rendered),
	}
}

// Unchanged reports whether the rendering is identical to the source.
func (c Comparison) Unchanged() bool {
	return c.Source == c.Rendered
}
