package loader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// sniffSize is how much of the file is looked at when detecting format.
const sniffSize = 4096

// Detect decides book format from file content, name extension is only used
// to disambiguate text based formats.
func Detect(name string, head []byte) Format {
	if len(head) > sniffSize {
		head = head[:sniffSize]
	}

	ext := strings.ToLower(filepath.Ext(name))

	kind, err := filetype.Match(head)
	if err == nil && kind != filetype.Unknown && kind.Extension != "" {
		switch kind.Extension {
		case "epub":
			return FormatEpub
		case "zip":
			// mimetype entry of some EPUBs is not stored first
			if ext == ".epub" {
				return FormatEpub
			}
			return FormatZip
		default:
			return FormatUnknown
		}
	}

	switch ext {
	case ".fb2":
		return FormatFb2
	case ".html", ".htm", ".xhtml", ".xht":
		return FormatHtml
	case ".txt", ".text":
		return FormatText
	}

	trimmed := bytes.TrimLeft(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")), " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		lower := bytes.ToLower(trimmed)
		switch {
		case bytes.Contains(lower, []byte("<fictionbook")):
			return FormatFb2
		case bytes.Contains(lower, []byte("<html")), bytes.HasPrefix(lower, []byte("<!doctype html")):
			return FormatHtml
		}
	}
	if bytes.IndexByte(head, 0) >= 0 && !utf16BOM(head) {
		// binary content of unknown kind
		return FormatUnknown
	}
	return FormatText
}

func utf16BOM(head []byte) bool {
	return bytes.HasPrefix(head, []byte{0xff, 0xfe}) || bytes.HasPrefix(head, []byte{0xfe, 0xff})
}

// DetectFile reads beginning of the file and detects its format.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, err
	}
	return Detect(path, head[:n]), nil
}
