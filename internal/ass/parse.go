package ass

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed marks input that cannot be read as a subtitle document.
var ErrMalformed = errors.New("malformed subtitle")

var defaultEventFormat = []string{"Layer", "Start", "End", "Style", "Name", "MarginL", "MarginR", "MarginV", "Effect", "Text"}

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionInfo
	sectionStyles
	sectionLegacyStyles
	sectionEvents
	sectionOther
)

type parser struct {
	doc         *Document
	section     sectionKind
	extra       *Section
	styleFormat []string
	eventFormat []string
	seenHeader  bool
}

// Parse reads an ASS or SSA document.
func Parse(text string) (*Document, error) {
	p := &parser{doc: &Document{}}
	text = strings.TrimPrefix(text, "\ufeff")
	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if err := p.line(line); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, n+1, err)
		}
	}
	if !p.seenHeader {
		return nil, fmt.Errorf("%w: no sections found", ErrMalformed)
	}
	return p.doc, nil
}

func (p *parser) line(line string) error {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		p.openSection(trimmed[1 : len(trimmed)-1])
		return nil
	}
	switch p.section {
	case sectionOther:
		p.extra.Lines = append(p.extra.Lines, line)
		return nil
	case sectionNone:
		return nil
	}
	if trimmed == "" {
		return nil
	}
	if p.section == sectionInfo && strings.HasPrefix(trimmed, ";") {
		p.doc.Info.addComment(trimmed)
		return nil
	}
	key, value, ok := strings.Cut(trimmed, ":")
	if !ok {
		return nil
	}
	key = strings.TrimSpace(key)
	value = strings.TrimLeft(value, " ")

	switch p.section {
	case sectionInfo:
		p.doc.Info.Set(key, strings.TrimSpace(value))
	case sectionStyles, sectionLegacyStyles:
		switch key {
		case "Format":
			p.styleFormat = splitFormat(value)
		case "Style":
			return p.style(value)
		}
	case sectionEvents:
		switch key {
		case "Format":
			p.eventFormat = splitFormat(value)
		case string(KindDialogue), string(KindComment):
			return p.event(EventKind(key), value)
		}
	}
	return nil
}

func (p *parser) openSection(name string) {
	p.seenHeader = true
	p.extra = nil
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "script info":
		p.section = sectionInfo
	case "v4+ styles", "v4 styles+":
		p.section = sectionStyles
	case "v4 styles":
		p.section = sectionLegacyStyles
	case "events":
		p.section = sectionEvents
	default:
		p.section = sectionOther
		p.doc.Extra = append(p.doc.Extra, Section{Name: name})
		p.extra = &p.doc.Extra[len(p.doc.Extra)-1]
	}
}

func (p *parser) style(value string) error {
	format := p.styleFormat
	if len(format) == 0 {
		format = styleFields
	}
	fields := strings.SplitN(value, ",", len(format))
	if len(fields) != len(format) {
		return fmt.Errorf("style has %d fields, format declares %d", len(fields), len(format))
	}
	style := NewStyle("")
	for i, column := range format {
		field := strings.TrimSpace(fields[i])
		switch column {
		case "TertiaryColour":
			column = "OutlineColour"
		case "AlphaLevel":
			continue
		case "Alignment":
			if p.section == sectionLegacyStyles {
				if mapped, ok := legacyAlignment[field]; ok {
					field = mapped
				}
			}
		}
		if err := style.SetAttr(column, field); err != nil {
			return err
		}
	}
	p.doc.Styles.Put(style)
	return nil
}

func (p *parser) event(kind EventKind, value string) error {
	format := p.eventFormat
	if len(format) == 0 {
		format = defaultEventFormat
	}
	fields := strings.SplitN(value, ",", len(format))
	if len(fields) != len(format) {
		return fmt.Errorf("event has %d fields, format declares %d", len(fields), len(format))
	}
	ev := Event{Kind: kind}
	for i, column := range format {
		field := fields[i]
		if column != "Text" {
			field = strings.TrimSpace(field)
		}
		var err error
		switch column {
		case "Layer":
			ev.Layer, err = atoiDefault(field)
		case "Start":
			ev.Start, err = ParseTimestamp(field)
		case "End":
			ev.End, err = ParseTimestamp(field)
		case "Style":
			ev.Style = field
		case "Name", "Actor":
			ev.Name = field
		case "MarginL":
			ev.MarginL, err = atoiDefault(field)
		case "MarginR":
			ev.MarginR, err = atoiDefault(field)
		case "MarginV":
			ev.MarginV, err = atoiDefault(field)
		case "Effect":
			ev.Effect = field
		case "Text":
			ev.Text = field
		}
		if err != nil {
			return fmt.Errorf("event %s: %w", column, err)
		}
	}
	p.doc.Events = append(p.doc.Events, ev)
	return nil
}

func splitFormat(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

func atoiDefault(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
}
