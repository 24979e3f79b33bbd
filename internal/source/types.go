package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file content was not read from disk (tests, unit metadata only).
	FileVirtual FileFlags = 1 << iota
	// FileNoContent indicates only the line table is known.
	FileNoContent
	FileNormalizedCRLF
)

// File captures metadata and, when available, content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
