// Package transform rewrites subtitle documents into the two-line layout:
// uniform style sizes, imported template styles, and bilingual events swapped
// so the secondary line sits on top in a larger font.
package transform

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"subsync/internal/ass"
	"subsync/internal/services"
)

// ErrMalformedEvent marks an event that looked bilingual but did not split
// into two lines.
var ErrMalformedEvent = errors.New("malformed event")

var inlineFontSize = regexp.MustCompile(`\\fs(\d+)`)

// Options configures a Transformer.
type Options struct {
	OtherFontSize  float64
	BottomFontSize float64
	Template       *ass.Document
	// KeepExistingStyles stops template styles from replacing same-named
	// document styles. Repeated passes are only byte-stable when it is false.
	KeepExistingStyles bool
}

// Transformer applies the layout rules to documents in place.
type Transformer struct {
	opts Options
}

// New returns a transformer. A nil template selects the embedded one.
func New(opts Options) *Transformer {
	if opts.Template == nil {
		opts.Template = ass.DefaultTemplate()
	}
	return &Transformer{opts: opts}
}

// Transform rewrites doc. On ErrMalformedEvent the document is partially
// rewritten and should be discarded.
func (t *Transformer) Transform(doc *ass.Document) error {
	for _, style := range doc.Styles.All() {
		style.FontSize = t.opts.OtherFontSize
	}
	doc.ImportStyles(t.opts.Template, !t.opts.KeepExistingStyles)
	NormalizeMetadata(doc)

	otherSize := formatSize(t.opts.OtherFontSize)
	bottomSize := formatSize(t.opts.BottomFontSize)
	for i := range doc.Events {
		ev := &doc.Events[i]
		if strings.Contains(ev.Text, `\N`) && !strings.Contains(ev.Text, `{\pos`) {
			upper, bottom, ok := strings.Cut(ev.Plaintext(), "\n")
			if !ok {
				return services.Wrap(services.ErrValidation, "transform", "split event",
					fmt.Sprintf("event %d has a line break but one line of text", i), ErrMalformedEvent)
			}
			bottom = strings.ReplaceAll(bottom, "\n", `\N`)
			ev.Text = bottom + `\N{\fs` + bottomSize + `}` + upper
			ev.Style = ass.DefaultStyleName
			continue
		}
		ev.Text = rewriteFontSizes(ev.Text, otherSize)
	}
	return nil
}

// NormalizeMetadata enables unscaled borders and drops the script resolution
// so renderers use the video resolution.
func NormalizeMetadata(doc *ass.Document) {
	doc.Info.Set("ScaledBorderAndShadow", "no")
	doc.Info.Delete("PlayResX")
	doc.Info.Delete("PlayResY")
}

// rewriteFontSizes replaces the digits of each \fs<digits> that ends at a
// tag boundary.
func rewriteFontSizes(text, size string) string {
	matches := inlineFontSize.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		digitsStart, digitsEnd := m[2], m[3]
		if digitsEnd >= len(text) || (text[digitsEnd] != '\\' && text[digitsEnd] != '}') {
			continue
		}
		b.WriteString(text[last:digitsStart])
		b.WriteString(size)
		last = digitsEnd
	}
	b.WriteString(text[last:])
	return b.String()
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}
