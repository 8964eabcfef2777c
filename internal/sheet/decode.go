package sheet

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// utf8Reader returns a reader that yields the export as UTF-8.
//
// Spreadsheet tools save CSV in whatever the desktop locale prefers, so the
// pound sign may arrive as 0xA3 (Windows-1252/Latin-1), as UTF-16 with a
// BOM, or as proper UTF-8. The whole export is inspected: legacy bytes often
// only show up in rows far below a plain ASCII head. Detection order:
//  1. BOM (UTF-8 BOM is dropped, UTF-16 LE/BE is decoded)
//  2. valid UTF-8 passes through
//  3. chardet heuristic
//  4. Windows-1252
func utf8Reader(r io.Reader) (io.Reader, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return bytes.NewReader(buf[len(bomUTF8):]), nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(bytes.NewReader(buf), unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(bytes.NewReader(buf), unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(buf) {
		return bytes.NewReader(buf), nil
	}

	// Invalid UTF-8 somewhere, so a UTF-8 verdict from chardet is ignored.
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil && result.Charset == "ISO-8859-9" {
		return transform.NewReader(bytes.NewReader(buf), charmap.ISO8859_9.NewDecoder()), nil
	}

	// Covers ISO-8859-1 as well; the two only differ in the C1 range.
	return transform.NewReader(bytes.NewReader(buf), charmap.Windows1252.NewDecoder()), nil
}
