package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"
)

// Digest is a SHA-256 sum used for cache keys.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps are already in a deterministic order.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// projectDigest hashes every file in load order. Findings in one file may
// depend on declarations in any other, so a change anywhere invalidates all
// cached entries.
func projectDigest(paths []string, hashes []Digest) Digest {
	h := sha256.New()
	var n [8]byte
	for i, p := range paths {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(p))
		_, _ = h.Write(hashes[i][:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// settingsDigest hashes the options that change what a file reports.
func settingsDigest(parts ...string) Digest {
	return Digest(sha256.Sum256([]byte(strings.Join(parts, "\x00"))))
}
