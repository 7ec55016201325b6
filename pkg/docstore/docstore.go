// Package docstore reads and writes the target document. Reads are
// format-aware with encoding fallback; writes stage content in a colocated
// temp file and atomically replace the target, so a concurrent reader only
// ever observes the fully-old or fully-new file.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/selwrite/selwrite/pkg/logging"
	"github.com/selwrite/selwrite/pkg/types"
)

// CursorMarker is the literal token the cursor-insert mode splices at.
const CursorMarker = "{{cursor}}"

// Format identifies how a document's bytes are structured.
type Format int

const (
	FormatPlainText Format = iota
	FormatMarkdown
	FormatRichDocument
)

func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatRichDocument:
		return "rich-document"
	default:
		return "plain-text"
	}
}

// Handle describes one resolved document target. Handles are resolved fresh
// on every call and never cached: the file may change between invocations.
type Handle struct {
	Path     string
	Format   Format
	Encoding string
}

// AccessError reports a path that cannot be read or written.
type AccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot %s document %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Store performs document I/O. One mutex serializes write attempts from
// this process; locking is conservative rather than per-path.
type Store struct {
	mu     sync.Mutex
	logger *logging.Logger
}

// New returns a document store.
func New() *Store {
	return &Store{logger: logging.GetLogger(false)}
}

// resolve determines the handle for a path from its extension. Unknown
// extensions fall back to plain text.
func (s *Store) resolve(path string) Handle {
	h := Handle{Path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		h.Format = FormatMarkdown
	case ".docx":
		h.Format = FormatRichDocument
	case ".txt":
		h.Format = FormatPlainText
	default:
		s.logger.Warn("unsupported extension on %s, treating as plain text", path)
		h.Format = FormatPlainText
	}
	return h
}

// ValidatePath checks that the document's directory exists and the path,
// if present, is a regular file.
func ValidatePath(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		info, err := os.Stat(dir)
		if err != nil {
			return &AccessError{Path: path, Op: "locate", Err: err}
		}
		if !info.IsDir() {
			return &AccessError{Path: path, Op: "locate", Err: fmt.Errorf("%s is not a directory", dir)}
		}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return &AccessError{Path: path, Op: "open", Err: fmt.Errorf("path is a directory")}
	}
	return nil
}

// Read returns the document's text. An empty or zero-length file is a
// valid empty document, not an error; a missing or unreadable file is an
// AccessError that callers may choose to degrade.
func (s *Store) Read(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(path)
}

// read is the lock-free body of Read; Write reuses it while holding the
// store lock.
func (s *Store) read(path string) (string, error) {
	handle := s.resolve(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &AccessError{Path: path, Op: "read", Err: err}
	}
	if len(data) == 0 {
		return "", nil
	}

	if handle.Format == FormatRichDocument {
		if !hasZipSignature(data) {
			s.logger.Warn("%s has a .docx extension but no container signature, reading as text", path)
		} else {
			return s.readDocx(path, data)
		}
	}

	text, encName, err := decodeText(data)
	if err != nil {
		return "", &AccessError{Path: path, Op: "decode", Err: err}
	}
	handle.Encoding = encName
	s.logger.Debug("read %s as %s (%s), %d chars", path, handle.Format, encName, len(text))
	return text, nil
}

// Write merges content into the document per the write mode and atomically
// replaces the target. Write failures always propagate: a failed write is
// never silently swallowed.
func (s *Store) Write(path, content string, mode types.WriteMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ValidatePath(path); err != nil {
		return err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		s.logger.Warn("writing empty content to %s", path)
	}

	merged, err := s.mergeForWrite(path, content, mode)
	if err != nil {
		return err
	}

	handle := s.resolve(path)
	s.logger.Info("writing %s, mode %s, %d chars", path, mode, len(merged))

	if handle.Format == FormatRichDocument {
		return s.writeDocx(path, merged)
	}
	return s.writeAtomic(path, []byte(merged))
}

// mergeForWrite combines the existing document text with the new content
// according to the write mode.
func (s *Store) mergeForWrite(path, content string, mode types.WriteMode) (string, error) {
	if mode == types.WriteModeOverwrite {
		return content, nil
	}

	existing, err := s.read(path)
	if err != nil {
		if os.IsNotExist(unwrapAccess(err)) {
			existing = ""
		} else {
			return "", err
		}
	}

	switch mode {
	case types.WriteModeIncremental:
		return appendWithSeparator(existing, content), nil
	case types.WriteModeCursorInsert:
		return spliceAtMarker(existing, content, s.logger), nil
	default:
		return content, nil
	}
}

// appendWithSeparator puts exactly one blank line between the existing
// content and the addition when both are non-empty.
func appendWithSeparator(existing, addition string) string {
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}
	sep := "\n\n"
	if strings.HasSuffix(existing, "\n") {
		sep = "\n"
	}
	return existing + sep + addition
}

// spliceAtMarker replaces the first cursor marker with the addition and
// removes any further markers, preserving surrounding whitespace exactly.
// Without a marker the mode degrades to an incremental append.
func spliceAtMarker(existing, addition string, logger *logging.Logger) string {
	if !strings.Contains(existing, CursorMarker) {
		logger.Warn("no %s marker found, appending instead", CursorMarker)
		return appendWithSeparator(existing, addition)
	}
	out := strings.Replace(existing, CursorMarker, addition, 1)
	return strings.ReplaceAll(out, CursorMarker, "")
}

func unwrapAccess(err error) error {
	if ae, ok := err.(*AccessError); ok {
		return ae.Err
	}
	return err
}
