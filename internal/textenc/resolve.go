package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"github.com/saintfish/chardet"
)

// Canonical encoding names returned by Resolve.
const (
	Unknown = ""
	UTF8    = "UTF-8"
	UTF16LE = "UTF-16LE"
	UTF16BE = "UTF-16BE"
	GB18030 = "GB18030"
)

// Detector guesses the encoding of a byte slice.
type Detector interface {
	Detect(raw []byte) (string, error)
}

type chardetDetector struct {
	detector *chardet.Detector
}

// NewDetector returns the statistical text detector.
func NewDetector() Detector {
	return chardetDetector{detector: chardet.NewTextDetector()}
}

func (d chardetDetector) Detect(raw []byte) (string, error) {
	result, err := d.detector.DetectBest(raw)
	if err != nil {
		return "", err
	}
	return result.Charset, nil
}

// Resolver determines file encodings.
type Resolver struct {
	detector Detector
}

// NewResolver builds a resolver. A nil detector selects the statistical one.
func NewResolver(detector Detector) *Resolver {
	if detector == nil {
		detector = NewDetector()
	}
	return &Resolver{detector: detector}
}

// Resolve returns the encoding name for raw. It never fails: anything the
// detector cannot classify is Unknown, which Decode reads as UTF-8.
//
// Input that is already valid UTF-8 is reported as such without consulting
// the detector; the statistical guess is only needed for legacy encodings.
func (r *Resolver) Resolve(raw []byte) string {
	if name := bomEncoding(raw); name != Unknown {
		return name
	}
	if utf8.Valid(raw) {
		return UTF8
	}
	name, err := r.detector.Detect(raw)
	if err != nil {
		return Unknown
	}
	return Normalize(name)
}

// Normalize canonicalizes a detector-reported name and replaces the GB2312
// family with GB18030.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(name, "-", ""), "_", "")) {
	case "":
		return Unknown
	case "GB2312", "EUCCN", "GB18030":
		return GB18030
	case "UTF8":
		return UTF8
	case "UTF16LE":
		return UTF16LE
	case "UTF16BE":
		return UTF16BE
	}
	return name
}

func bomEncoding(raw []byte) string {
	_, enc := utfbom.Skip(bytes.NewReader(raw))
	switch enc {
	case utfbom.UTF8:
		return UTF8
	case utfbom.UTF16LittleEndian:
		return UTF16LE
	case utfbom.UTF16BigEndian:
		return UTF16BE
	default:
		return Unknown
	}
}
