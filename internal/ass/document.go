package ass

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// ErrStyleNotFound reports a rename of a style the document does not have.
var ErrStyleNotFound = errors.New("style not found")

// ErrStyleExists reports a rename onto a name already in use.
var ErrStyleExists = errors.New("style already exists")

// EventKind distinguishes displayed lines from commented-out ones.
type EventKind string

const (
	KindDialogue EventKind = "Dialogue"
	KindComment  EventKind = "Comment"
)

// Event is one timed line of the [Events] section.
type Event struct {
	Kind    EventKind
	Layer   int
	Start   time.Duration
	End     time.Duration
	Style   string
	Name    string
	MarginL int
	MarginR int
	MarginV int
	Effect  string
	Text    string
}

var overrideBlock = regexp.MustCompile(`\{[^}]*\}`)

// Plaintext returns the text with override blocks removed, \h as a space
// and \n or \N as a newline.
func (e *Event) Plaintext() string {
	text := overrideBlock.ReplaceAllString(e.Text, "")
	text = strings.ReplaceAll(text, `\h`, " ")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, `\N`, "\n")
	return text
}

// SetPlaintext replaces the text, encoding newlines as \N.
func (e *Event) SetPlaintext(text string) {
	e.Text = strings.ReplaceAll(text, "\n", `\N`)
}

// Section is a block the package does not interpret, kept verbatim.
type Section struct {
	Name  string
	Lines []string
}

// Document is a parsed subtitle file.
type Document struct {
	Info   Info
	Styles Styles
	Events []Event
	Extra  []Section
}

// New returns an empty v4.00+ document with a Default style.
func New() *Document {
	doc := &Document{}
	doc.Info.Set("ScriptType", "v4.00+")
	doc.Styles.Put(NewStyle(DefaultStyleName))
	return doc
}

// RenameStyle renames a style and every event that references it.
func (d *Document) RenameStyle(oldName, newName string) error {
	style, ok := d.Styles.Get(oldName)
	if !ok {
		return fmt.Errorf("rename %q: %w", oldName, ErrStyleNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := d.Styles.Get(newName); exists {
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrStyleExists)
	}
	style.Name = newName
	for i := range d.Events {
		if d.Events[i].Style == oldName {
			d.Events[i].Style = newName
		}
	}
	return nil
}

// ImportStyles copies styles from src. Existing names are replaced only when
// overwrite is set. It returns the names that were added or replaced.
func (d *Document) ImportStyles(src *Document, overwrite bool) []string {
	if src == nil {
		return nil
	}
	var changed []string
	for _, style := range src.Styles.items {
		if _, exists := d.Styles.Get(style.Name); exists && !overwrite {
			continue
		}
		d.Styles.Put(style.Clone())
		changed = append(changed, style.Name)
	}
	return changed
}

// Shift moves every event by delta. Negative results clamp to zero on write.
func (d *Document) Shift(delta time.Duration) {
	for i := range d.Events {
		d.Events[i].Start += delta
		d.Events[i].End += delta
	}
}

// SortByStart orders events by start time, keeping the order of ties.
func (d *Document) SortByStart() {
	slices.SortStableFunc(d.Events, func(a, b Event) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	clone := &Document{
		Info:   Info{entries: append([]InfoEntry(nil), d.Info.entries...)},
		Events: append([]Event(nil), d.Events...),
	}
	for _, style := range d.Styles.items {
		clone.Styles.items = append(clone.Styles.items, style.Clone())
	}
	for _, section := range d.Extra {
		clone.Extra = append(clone.Extra, Section{Name: section.Name, Lines: append([]string(nil), section.Lines...)})
	}
	return clone
}
