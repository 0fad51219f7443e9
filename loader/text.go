package loader

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"ebr/book"
)

// ParseEncoding looks up character set by its IANA name.
func ParseEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("character set %q is not supported", name)
	}
	return enc, nil
}

// decodeText converts text to UTF-8. Forced encoding wins, otherwise BOM and
// content are examined.
func decodeText(data []byte, forced encoding.Encoding, contentType string, log *zap.Logger) ([]byte, error) {
	if forced != nil {
		out, err := forced.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("unable to decode text: %w", err)
		}
		return out, nil
	}

	enc, name, certain := charset.DetermineEncoding(data, contentType)
	log.Debug("Detected text encoding", zap.String("charset", name), zap.Bool("certain", certain))

	r := enc.NewDecoder().Reader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to decode text (%s): %w", name, err)
	}
	return bytes.TrimPrefix(out, []byte("\xef\xbb\xbf")), nil
}

// textDocument keeps plain text layout: every source line is a line, leading
// whitespace is preserved.
func textDocument(title string, text []byte) *book.Document {
	b := book.NewBuilder()
	b.SetTitle(title)
	b.AppendRaw(string(text))
	return b.Build()
}

func loadText(name string, data []byte, opts Options, log *zap.Logger) (*single, error) {
	text, err := decodeText(data, opts.Encoding, "text/plain", log)
	if err != nil {
		return nil, err
	}
	return newSingle(name, textDocument(titleFromName(name), text), nil), nil
}
