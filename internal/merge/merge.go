// Package merge combines a primary-language and a secondary-language
// subtitle document into one bilingual, time-ordered document.
package merge

import (
	"strings"

	"subsync/internal/ass"
	"subsync/internal/services"
	"subsync/internal/transform"
)

// Options configures a Merger.
type Options struct {
	PrimaryStyle       string
	SecondaryStyle     string
	Template           *ass.Document
	KeepExistingStyles bool
}

// Merger merges matched document pairs.
type Merger struct {
	opts Options
}

// New returns a merger. Empty labels default to Chinese and English; a nil
// template selects the embedded one.
func New(opts Options) *Merger {
	if opts.PrimaryStyle == "" {
		opts.PrimaryStyle = "Chinese"
	}
	if opts.SecondaryStyle == "" {
		opts.SecondaryStyle = "English"
	}
	if opts.Template == nil {
		opts.Template = ass.DefaultTemplate()
	}
	return &Merger{opts: opts}
}

// Merge folds right into left and returns left. Both documents are consumed.
// A secondary style whose name the primary already defines is dropped and
// its events render with the primary definition; the dropped names are
// returned alongside the document.
func (m *Merger) Merge(left, right *ass.Document) (*ass.Document, []string, error) {
	if err := left.RenameStyle(ass.DefaultStyleName, m.opts.PrimaryStyle); err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "merge", "rename primary style", "", err)
	}
	left.ImportStyles(m.opts.Template, !m.opts.KeepExistingStyles)

	if err := right.RenameStyle(ass.DefaultStyleName, m.opts.SecondaryStyle); err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "merge", "rename secondary style", "", err)
	}
	var dropped []string
	for _, name := range right.Styles.Names() {
		if _, exists := left.Styles.Get(name); exists {
			dropped = append(dropped, name)
		}
	}
	left.ImportStyles(right, false)

	left.Events = append(left.Events, right.Events...)
	left.SortByStart()
	for i := range left.Events {
		ev := &left.Events[i]
		ev.Text = strings.ReplaceAll(ev.Plaintext(), "\n", " - ")
	}

	transform.NormalizeMetadata(left)
	return left, dropped, nil
}
