// Package document resolves the text of the note being practiced.
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StdinPath selects standard input as the document.
const StdinPath = "-"

// Source supplies the raw text of the active document.
// ok is false when there is no document or it holds no text.
type Source interface {
	ActiveText() (text string, ok bool, err error)
	Name() string
}

// FileSource reads a document from disk.
type FileSource struct {
	Path string
}

// ActiveText implements Source.
func (s FileSource) ActiveText() (string, bool, error) {
	if s.Path == "" {
		return "", false, nil
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read document: %w", err)
	}
	return present(string(b))
}

// Name returns the absolute path when it can be resolved.
func (s FileSource) Name() string {
	if s.Path == "" {
		return ""
	}
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return s.Path
	}
	return abs
}

// ReaderSource reads a document from a stream such as stdin.
type ReaderSource struct {
	R     io.Reader
	Label string
}

// ActiveText implements Source.
func (s ReaderSource) ActiveText() (string, bool, error) {
	if s.R == nil {
		return "", false, nil
	}
	b, err := io.ReadAll(s.R)
	if err != nil {
		return "", false, fmt.Errorf("failed to read document: %w", err)
	}
	return present(string(b))
}

// Name implements Source.
func (s ReaderSource) Name() string {
	if s.Label == "" {
		return "stdin"
	}
	return s.Label
}

// Resolve returns the source for a CLI path argument.
func Resolve(path string, stdin io.Reader) Source {
	if path == StdinPath {
		return ReaderSource{R: stdin, Label: "stdin"}
	}
	return FileSource{Path: path}
}

func present(text string) (string, bool, error) {
	if strings.TrimSpace(text) == "" {
		return "", false, nil
	}
	return text, true, nil
}
