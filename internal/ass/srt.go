package ass

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	srtTiming  = regexp.MustCompile(`^\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})`)
	srtTag     = regexp.MustCompile(`(?i)<(/?)([ibus])>`)
	srtFontTag = regexp.MustCompile(`(?i)</?font[^>]*>`)
)

// ParseSRT reads a SubRip file into a document with a single Default style.
func ParseSRT(text string) (*Document, error) {
	doc := New()
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for i := 0; i < len(lines); i++ {
		m := srtTiming.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		start, err := ParseTimestamp(fmt.Sprintf("%s:%s:%s.%s", m[1], m[2], m[3], padMillis(m[4])))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, i+1, err)
		}
		end, err := ParseTimestamp(fmt.Sprintf("%s:%s:%s.%s", m[5], m[6], m[7], padMillis(m[8])))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, i+1, err)
		}
		var body []string
		for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			i++
			body = append(body, strings.TrimSpace(lines[i]))
		}
		doc.Events = append(doc.Events, Event{
			Kind:  KindDialogue,
			Start: start,
			End:   end,
			Style: DefaultStyleName,
			Text:  srtMarkup(strings.Join(body, `\N`)),
		})
	}
	if len(doc.Events) == 0 && strings.TrimSpace(text) != "" {
		return nil, fmt.Errorf("%w: no SubRip cues found", ErrMalformed)
	}
	return doc, nil
}

// Timing fields are milliseconds in SubRip; ParseTimestamp reads fractions
// left-aligned, so short values need leading zeros.
func padMillis(value string) string {
	for len(value) < 3 {
		value = "0" + value
	}
	return value
}

func srtMarkup(text string) string {
	text = srtFontTag.ReplaceAllString(text, "")
	return srtTag.ReplaceAllStringFunc(text, func(tag string) string {
		m := srtTag.FindStringSubmatch(tag)
		state := "1"
		if m[1] == "/" {
			state = "0"
		}
		return `{\` + strings.ToLower(m[2]) + state + `}`
	})
}

// MarshalSRT renders the Dialogue events as SubRip. Override tags are
// dropped and line breaks become newlines.
func (d *Document) MarshalSRT() []byte {
	var b strings.Builder
	n := 0
	for _, ev := range d.Events {
		if ev.Kind == KindComment {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", n, srtTimestamp(ev.Start), srtTimestamp(ev.End), ev.Plaintext())
	}
	return []byte(b.String())
}

func srtTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}
