package ass

import "strings"

// InfoEntry is one line of the [Script Info] section. Comment entries carry
// the full line in Value and an empty Key.
type InfoEntry struct {
	Key     string
	Value   string
	Comment bool
}

// Info holds [Script Info] entries in file order.
type Info struct {
	entries []InfoEntry
}

// Get returns the value stored for key. Keys compare case-insensitively.
func (i *Info) Get(key string) (string, bool) {
	if idx := i.index(key); idx >= 0 {
		return i.entries[idx].Value, true
	}
	return "", false
}

// Set replaces the value for key or appends a new entry.
func (i *Info) Set(key, value string) {
	if idx := i.index(key); idx >= 0 {
		i.entries[idx].Value = value
		return
	}
	i.entries = append(i.entries, InfoEntry{Key: key, Value: value})
}

// Delete removes key if present.
func (i *Info) Delete(key string) {
	if idx := i.index(key); idx >= 0 {
		i.entries = append(i.entries[:idx], i.entries[idx+1:]...)
	}
}

// Entries returns a copy of all entries including comments.
func (i *Info) Entries() []InfoEntry {
	return append([]InfoEntry(nil), i.entries...)
}

func (i *Info) addComment(line string) {
	i.entries = append(i.entries, InfoEntry{Value: line, Comment: true})
}

func (i *Info) index(key string) int {
	for idx, entry := range i.entries {
		if !entry.Comment && strings.EqualFold(entry.Key, key) {
			return idx
		}
	}
	return -1
}
