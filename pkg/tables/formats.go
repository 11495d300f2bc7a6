package tables

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnsupportedFormat is returned for tables files that are not TOML.
var ErrUnsupportedFormat = errors.New("unsupported tables format")

// FileFormat represents the accepted tables file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML
)

// FormatInfo contains metadata about a tables file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Completion Tables",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
}

// DetectFileFormat maps a filename to its format by extension.
func DetectFileFormat(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format
			}
		}
	}
	return FormatUnknown
}

// ValidateFile checks that filename exists, is readable and is a TOML tables file.
func ValidateFile(filename string) error {
	format := DetectFileFormat(filename)
	if format == FormatUnknown {
		return fmt.Errorf("%w: %s (expected %v)", ErrUnsupportedFormat, filename,
			supportedFormats[FormatTOML].Extensions)
	}
	info := supportedFormats[format]

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("tables path %s is a directory", filename)
	}
	if fileInfo.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s",
			filename, fileInfo.Size(), info.Description)
	}

	log.Debugf("Tables file %s validated as %s", filename, info.Description)
	return nil
}
