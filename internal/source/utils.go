package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// detectFlags inspects content without changing it.
func detectFlags(content []byte) FileFlags {
	var flags FileFlags
	if bytes.HasPrefix(content, utf8BOM) {
		flags |= FileHasBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	return flags
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line/column pair.
// The '\n' byte itself belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строки строго левее off
	n := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if n == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	startOff := lineIdx[n-1] + 1
	return LineCol{Line: uint32(n + 1), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
