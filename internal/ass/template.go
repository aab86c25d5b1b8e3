package ass

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed default.ass
var defaultTemplate string

// DefaultTemplate returns the built-in style template.
func DefaultTemplate() *Document {
	doc, err := Parse(defaultTemplate)
	if err != nil {
		panic(fmt.Sprintf("embedded style template: %v", err))
	}
	return doc
}

// LoadTemplate reads a style template from path, or returns the built-in
// template when path is empty. Template files must be UTF-8.
func LoadTemplate(path string) (*Document, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style template: %w", err)
	}
	doc, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse style template %s: %w", path, err)
	}
	if doc.Styles.Len() == 0 {
		return nil, fmt.Errorf("%w: style template %s defines no styles", ErrMalformed, path)
	}
	return doc, nil
}
