package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks files added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHasBOM marks content starting with a UTF-8 byte order mark. PHP
	// emits it as output before the open tag.
	FileHasBOM
	// FileHasCRLF marks content with Windows line endings.
	FileHasCRLF
)

// File is one PHP source file. Content is kept byte for byte as read so
// spans map onto the file on disk.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n' bytes
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
