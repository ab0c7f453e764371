// Package qrgen provides the qr_code tool. It encodes text into a PNG QR
// code on disk and returns the artifact path. Encoding is deterministic:
// identical text and parameters produce identical images.
package qrgen

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// imageSize is the width and height of generated images in pixels.
const imageSize = 256

// Artifact is the payload returned by qr_code.
type Artifact struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

// Generator writes QR code images into an output directory.
type Generator struct {
	dir string
}

// New creates a Generator that writes images under dir. The directory is
// created on first use.
func New(dir string) *Generator {
	return &Generator{dir: dir}
}

// Tools returns the qr_code tool.
func (g *Generator) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Spec: toolbox.Spec{
				Name:        "qr_code",
				Description: "Generate a QR code image (PNG) encoding the given text. When filename is omitted one is derived from the text.",
				Params: []toolbox.Param{
					{Name: "text", Type: toolbox.TypeString, Required: true, Description: "Text or URL to encode"},
					{Name: "filename", Type: toolbox.TypeString, Description: "Output file name; \".png\" is appended when missing"},
				},
			},
			Handler: g.handleGenerate,
		},
	}
}

func (g *Generator) handleGenerate(_ context.Context, args toolbox.Args) (any, error) {
	text := args.String("text")
	if text == "" {
		return nil, fmt.Errorf("qr_code: text must not be empty")
	}

	filename := args.String("filename")
	if filename == "" {
		filename = deriveFilename(text)
	}

	filename = sanitize(filename)
	if !strings.HasSuffix(filename, ".png") {
		filename += ".png"
	}

	if err := os.MkdirAll(g.dir, 0o750); err != nil {
		return nil, fmt.Errorf("qr_code: create output directory: %w", err)
	}

	path := filepath.Join(g.dir, filename)

	data, err := qrcode.Encode(text, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("qr_code: encode: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("qr_code: write image: %w", err)
	}

	return Artifact{Path: path, Size: len(data)}, nil
}

// deriveFilename builds a file name from the encoded text: the host for URLs,
// otherwise the leading characters of the text.
func deriveFilename(text string) string {
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		if u, err := url.Parse(text); err == nil && u.Hostname() != "" {
			return strings.TrimPrefix(u.Hostname(), "www.") + "_qr"
		}
	}

	runes := []rune(text)
	if len(runes) > 20 {
		runes = runes[:20]
	}

	return string(runes) + "_qr"
}

// sanitize replaces every character outside [a-zA-Z0-9._-] with an underscore
// so derived names are always safe file names.
func sanitize(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	return sb.String()
}
