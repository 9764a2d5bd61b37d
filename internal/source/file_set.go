package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and provides span resolution.
// It is populated before analysis starts and only read afterwards.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the base directory, falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len returns the number of files ever added.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", normalizedPath, err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	// индекс всегда указывает на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk and calls Add with its bytes unchanged. A
// leading BOM and CRLF line endings are recorded in the flags only.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.Add(path, content, detectFlags(content)), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the source bytes covered by span as a string.
func (fileSet *FileSet) Text(span Span) string {
	if int(span.File) >= len(fileSet.files) {
		return ""
	}
	return fileSet.files[span.File].Text(span)
}

// Text returns the bytes of f covered by span, clamped to the file size.
func (f *File) Text(span Span) string {
	n := uint32(len(f.Content))
	start, end := span.Start, span.End
	if end > n {
		end = n
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// GetLine возвращает строку с заданным номером (1-based) из файла, без
// "\r" в конце и без BOM в первой строке.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if lineNum-1 < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start > lenContent || (start == lenContent && lineNum > 1) {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	line := f.Content[start:end]
	if lineNum == 1 && f.Flags&FileHasBOM != 0 {
		line = bytes.TrimPrefix(line, utf8BOM)
	}
	return string(bytes.TrimSuffix(line, []byte{'\r'}))
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if f.Flags&FileVirtual != 0 {
			return f.Path
		}
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		// короткие и относительные пути как есть, иначе basename
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
