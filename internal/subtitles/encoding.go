package subtitles

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// AutoEncoding asks Open to detect the text encoding.
const AutoEncoding = "auto"

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// textCodec remembers how a file was decoded so it can be written back the
// same way.
type textCodec struct {
	name string
	enc  encoding.Encoding
	bom  []byte
}

// detectEncoding resolves hint to a codec for raw. "auto" (or empty) checks
// for a byte-order mark, then UTF-8 validity, then falls back to
// windows-1252, which accepts any byte sequence.
func detectEncoding(raw []byte, hint string) (textCodec, error) {
	hint = strings.TrimSpace(hint)
	if hint != "" && !strings.EqualFold(hint, AutoEncoding) {
		enc, err := htmlindex.Get(hint)
		if err != nil {
			return textCodec{}, fmt.Errorf("unsupported encoding %q", hint)
		}
		name, _ := htmlindex.Name(enc)
		return textCodec{name: name, enc: enc}, nil
	}
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return textCodec{name: "utf-8", bom: bomUTF8}, nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		return textCodec{name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), bom: bomUTF16LE}, nil
	case bytes.HasPrefix(raw, bomUTF16BE):
		return textCodec{name: "utf-16be", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), bom: bomUTF16BE}, nil
	case utf8.Valid(raw):
		return textCodec{name: "utf-8"}, nil
	default:
		return textCodec{name: "windows-1252", enc: charmap.Windows1252}, nil
	}
}

func (c textCodec) decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, c.bom)
	if c.enc == nil {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(c.enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}
	return string(out), nil
}

func (c textCodec) encode(text string) ([]byte, error) {
	body := []byte(text)
	if c.enc != nil {
		var err error
		body, _, err = transform.Bytes(c.enc.NewEncoder(), body)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.name, err)
		}
	}
	if len(c.bom) == 0 {
		return body, nil
	}
	return append(append([]byte(nil), c.bom...), body...), nil
}
