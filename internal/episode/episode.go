// Package episode extracts season/episode identifiers from file names.
package episode

import (
	"regexp"
	"strings"
	"unicode"

	"subsync/internal/services"
)

// DefaultPattern matches tokens such as S01E02, s1.e2 and S01_E002.
const DefaultPattern = `s\d{1,2}[\s._-]?e\d{1,3}`

// Identifier finds episode tokens with one case-insensitive pattern.
type Identifier struct {
	re *regexp.Regexp
}

// New compiles pattern case-insensitively. An empty pattern selects
// DefaultPattern.
func New(pattern string) (*Identifier, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "episode", "compile pattern", "files.tv_episode_pattern is not a valid expression", err)
	}
	return &Identifier{re: re}, nil
}

// Extract returns the first token in name. With formatted set the token is
// canonical: upper case with every non-alphanumeric rune removed.
func (id *Identifier) Extract(name string, formatted bool) (string, bool) {
	token := id.re.FindString(name)
	if token == "" {
		return "", false
	}
	if !formatted {
		return token, true
	}
	return canonical(token), true
}

// Key returns the canonical episode key for name.
func (id *Identifier) Key(name string) (string, bool) {
	return id.Extract(name, true)
}

// Token returns the matched substring of name unchanged.
func (id *Identifier) Token(name string) (string, bool) {
	return id.Extract(name, false)
}

// ReplaceToken replaces every case-insensitive occurrence of the token found
// in name with replacement. It reports false when name has no token.
func (id *Identifier) ReplaceToken(name, replacement string) (string, bool) {
	token, ok := id.Token(name)
	if !ok {
		return name, false
	}
	literal := regexp.MustCompile("(?i)" + regexp.QuoteMeta(token))
	return literal.ReplaceAllLiteralString(name, replacement), true
}

func canonical(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
