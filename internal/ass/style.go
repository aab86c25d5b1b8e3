package ass

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultStyleName is the style every freshly created document carries.
const DefaultStyleName = "Default"

// styleFields is the ASS v4.00+ style column order written by Marshal.
var styleFields = []string{
	"Name", "Fontname", "Fontsize", "PrimaryColour", "SecondaryColour",
	"OutlineColour", "BackColour", "Bold", "Italic", "Underline", "StrikeOut",
	"ScaleX", "ScaleY", "Spacing", "Angle", "BorderStyle", "Outline", "Shadow",
	"Alignment", "MarginL", "MarginR", "MarginV", "Encoding",
}

var styleDefaults = map[string]string{
	"Fontname":        "Arial",
	"PrimaryColour":   "&H00FFFFFF",
	"SecondaryColour": "&H000000FF",
	"OutlineColour":   "&H00000000",
	"BackColour":      "&H00000000",
	"Bold":            "0",
	"Italic":          "0",
	"Underline":       "0",
	"StrikeOut":       "0",
	"ScaleX":          "100",
	"ScaleY":          "100",
	"Spacing":         "0",
	"Angle":           "0",
	"BorderStyle":     "1",
	"Outline":         "2",
	"Shadow":          "2",
	"Alignment":       "2",
	"MarginL":         "10",
	"MarginR":         "10",
	"MarginV":         "10",
	"Encoding":        "1",
}

// SSA v4 numbers alignments 1-3 bottom, 5-7 top, 9-11 middle.
var legacyAlignment = map[string]string{
	"1": "1", "2": "2", "3": "3",
	"5": "7", "6": "8", "7": "9",
	"9": "4", "10": "5", "11": "6",
}

// Style is a named entry of the style table. Attributes other than the name
// and font size are kept as their textual values keyed by v4.00+ column name.
type Style struct {
	Name     string
	FontSize float64
	attrs    map[string]string
}

// NewStyle returns a style with renderer defaults and a 20pt font.
func NewStyle(name string) *Style {
	return &Style{Name: name, FontSize: 20, attrs: map[string]string{}}
}

// Attr returns a column value, falling back to the renderer default.
func (s *Style) Attr(field string) string {
	switch field {
	case "Name":
		return s.Name
	case "Fontsize":
		return formatFloat(s.FontSize)
	}
	if v, ok := s.attrs[field]; ok {
		return v
	}
	return styleDefaults[field]
}

// SetAttr sets a column value. Name and Fontsize update the typed fields.
func (s *Style) SetAttr(field, value string) error {
	switch field {
	case "Name":
		s.Name = value
	case "Fontsize":
		size, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("invalid font size %q", value)
		}
		s.FontSize = size
	default:
		if s.attrs == nil {
			s.attrs = map[string]string{}
		}
		s.attrs[field] = value
	}
	return nil
}

// Clone returns an independent copy.
func (s *Style) Clone() *Style {
	clone := &Style{Name: s.Name, FontSize: s.FontSize, attrs: make(map[string]string, len(s.attrs))}
	for k, v := range s.attrs {
		clone.attrs[k] = v
	}
	return clone
}

func (s *Style) marshal() string {
	values := make([]string, len(styleFields))
	for i, field := range styleFields {
		values[i] = s.Attr(field)
	}
	return "Style: " + strings.Join(values, ",")
}

// Styles is an ordered style table with unique names.
type Styles struct {
	items []*Style
}

// Len reports the number of styles.
func (t *Styles) Len() int { return len(t.items) }

// All returns the styles in table order.
func (t *Styles) All() []*Style {
	return append([]*Style(nil), t.items...)
}

// Names returns the style names in table order.
func (t *Styles) Names() []string {
	names := make([]string, len(t.items))
	for i, s := range t.items {
		names[i] = s.Name
	}
	return names
}

// Get looks a style up by exact name.
func (t *Styles) Get(name string) (*Style, bool) {
	if idx := t.index(name); idx >= 0 {
		return t.items[idx], true
	}
	return nil, false
}

// Put replaces a same-named style in place or appends the style.
func (t *Styles) Put(style *Style) {
	if idx := t.index(style.Name); idx >= 0 {
		t.items[idx] = style
		return
	}
	t.items = append(t.items, style)
}

// Delete removes the named style if present.
func (t *Styles) Delete(name string) {
	if idx := t.index(name); idx >= 0 {
		t.items = append(t.items[:idx], t.items[idx+1:]...)
	}
}

func (t *Styles) index(name string) int {
	for i, s := range t.items {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
