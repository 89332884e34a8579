package users

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

const utf8Charset = "utf-8"

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals
	utf16LEBOM = []byte{0xFF, 0xFE}       //nolint:gochecknoglobals
	utf16BEBOM = []byte{0xFE, 0xFF}       //nolint:gochecknoglobals
)

// toUTF8 returns data as UTF-8 without a byte order mark, along with the charset it
// was decoded from. Input that is already UTF-8 is returned untouched. For anything
// else the charset is detected; if detection or decoding fails the bytes are passed
// through as-is and the decoder downstream deals with them.
func toUTF8(data []byte) ([]byte, string) {
	if !bytes.HasPrefix(data, utf16LEBOM) && !bytes.HasPrefix(data, utf16BEBOM) && utf8.Valid(data) {
		return bytes.TrimPrefix(data, utf8BOM), utf8Charset
	}

	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return data, utf8Charset
	}

	decoded, err := charset.NewReaderLabel(best.Charset, bytes.NewReader(data))
	if err != nil {
		return data, utf8Charset
	}

	out, err := io.ReadAll(decoded)
	if err != nil || !utf8.Valid(out) {
		return data, utf8Charset
	}

	// Some decoders keep the BOM as U+FEFF.
	return bytes.TrimPrefix(out, utf8BOM), best.Charset
}
