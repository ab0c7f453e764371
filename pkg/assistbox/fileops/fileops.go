// Package fileops provides the file_read and file_write tools. Paths are
// resolved relative to a configured root and may not escape it. Files are
// UTF-8 text; there is no open-handle lifecycle, each call is one complete
// read or write.
package fileops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// maxFileSize caps file_read at 10MB.
const maxFileSize = 10 << 20

// ReadPayload is returned by file_read.
type ReadPayload struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// WritePayload is returned by file_write.
type WritePayload struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// FS provides file tools confined to a root directory.
type FS struct {
	root string
}

// New creates an FS rooted at the given directory.
func New(root string) *FS {
	return &FS{root: root}
}

// Tools returns the file_read and file_write tools.
func (f *FS) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Spec: toolbox.Spec{
				Name:        "file_read",
				Description: "Read a UTF-8 text file. The path is relative to the workspace root.",
				Params: []toolbox.Param{
					{Name: "path", Type: toolbox.TypeString, Required: true, Description: "File path relative to the workspace root"},
				},
			},
			Handler: f.handleRead,
		},
		{
			Spec: toolbox.Spec{
				Name:        "file_write",
				Description: "Write a UTF-8 text file. The parent directory must already exist.",
				Params: []toolbox.Param{
					{Name: "path", Type: toolbox.TypeString, Required: true, Description: "File path relative to the workspace root"},
					{Name: "content", Type: toolbox.TypeString, Required: true, Description: "Text content to write"},
				},
			},
			Handler: f.handleWrite,
		},
	}
}

// resolve joins path with the root and rejects paths that escape it.
func (f *FS) resolve(path string) (string, error) {
	full := filepath.Clean(filepath.Join(f.root, path))

	rootAbs, err := filepath.Abs(f.root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the workspace root", path)
	}

	return fullAbs, nil
}

func (f *FS) handleRead(_ context.Context, args toolbox.Args) (any, error) {
	path := args.String("path")

	full, err := f.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("file_read: %w", err)
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file_read: %s not found", path)
		}

		return nil, fmt.Errorf("file_read: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("file_read: %s is a directory", path)
	}

	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file_read: %s is too large (%d bytes, max %d)", path, info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(full) //nolint:gosec // path is confined to the workspace root
	if err != nil {
		return nil, fmt.Errorf("file_read: %w", err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("file_read: %s is not valid UTF-8 text", path)
	}

	return ReadPayload{Path: path, Content: string(data), Size: info.Size()}, nil
}

func (f *FS) handleWrite(_ context.Context, args toolbox.Args) (any, error) {
	path := args.String("path")
	content := args.String("content")

	full, err := f.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("file_write: %w", err)
	}

	// Parent directories are not created implicitly; a write into a missing
	// directory is the caller's mistake.
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("file_write: %w", err)
	}

	return WritePayload{Path: path, Bytes: len(content)}, nil
}
