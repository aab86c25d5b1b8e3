package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dimchansky/utfbom"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// ErrUnsupported is returned for encoding names no decoder is known for.
var ErrUnsupported = errors.New("unsupported encoding")

var knownEncodings = map[string]encoding.Encoding{
	GB18030:    simplifiedchinese.GB18030,
	"GBK":      simplifiedchinese.GBK,
	"BIG5":     traditionalchinese.Big5,
	UTF16LE:    unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	UTF16BE:    unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"UTF-32LE": utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"UTF-32BE": utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
}

// Lookup returns the decoder for name. Unknown and UTF-8 return nil.
func Lookup(name string) (encoding.Encoding, error) {
	name = Normalize(name)
	if name == Unknown || name == UTF8 {
		return nil, nil
	}
	if enc, ok := knownEncodings[strings.ToUpper(name)]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	return enc, nil
}

// Decode converts raw in the named encoding to UTF-8 text, dropping any BOM.
func Decode(raw []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(utfbom.SkipOnly(bytes.NewReader(raw)))
	if err != nil {
		return "", fmt.Errorf("strip byte-order mark: %w", err)
	}
	if enc == nil {
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(decoded), nil
}

// DecodeDetected resolves the encoding of raw and decodes it.
func (r *Resolver) DecodeDetected(raw []byte) (text string, name string, err error) {
	name = r.Resolve(raw)
	text, err = Decode(raw, name)
	return text, name, err
}
