// Package matcher pairs files across two listings by episode key.
package matcher

// Reasons attached to unmatched names.
const (
	ReasonNoEpisodeToken = "no_episode_token"
	ReasonNoCounterpart  = "no_counterpart"
)

// KeyFunc returns the canonical episode key of a name.
type KeyFunc func(name string) (string, bool)

// Pair is a driving name matched to its indexed counterpart.
type Pair struct {
	Key         string
	Driving     string
	Counterpart string
}

// Unmatched is a driving name that produced no pair.
type Unmatched struct {
	Name   string
	Reason string
}

// Shadowed is an indexed name hidden by an earlier name with the same key.
type Shadowed struct {
	Key    string
	Name   string
	Winner string
}

// Index maps episode keys to the first name listed for each.
type Index struct {
	key      KeyFunc
	byKey    map[string]string
	order    []string
	shadowed []Shadowed
}

// BuildIndex indexes names in listing order. Names without a key are
// skipped; the first name per key wins.
func BuildIndex(names []string, key KeyFunc) *Index {
	idx := &Index{key: key, byKey: make(map[string]string, len(names))}
	for _, name := range names {
		k, ok := key(name)
		if !ok {
			continue
		}
		if winner, exists := idx.byKey[k]; exists {
			idx.shadowed = append(idx.shadowed, Shadowed{Key: k, Name: name, Winner: winner})
			continue
		}
		idx.byKey[k] = name
		idx.order = append(idx.order, k)
	}
	return idx
}

// Lookup returns the name indexed under key.
func (i *Index) Lookup(key string) (string, bool) {
	name, ok := i.byKey[key]
	return name, ok
}

// Keys returns indexed keys in first-seen order.
func (i *Index) Keys() []string {
	return append([]string(nil), i.order...)
}

// Len reports the number of indexed keys.
func (i *Index) Len() int { return len(i.byKey) }

// Shadowed returns names hidden by an earlier duplicate, in listing order.
func (i *Index) Shadowed() []Shadowed {
	return append([]Shadowed(nil), i.shadowed...)
}

// Match pairs each driving name with the indexed name of the same key, using
// the key function the index was built with. Pairs and unmatched entries keep
// driving order.
func Match(driving []string, index *Index) ([]Pair, []Unmatched) {
	var pairs []Pair
	var unmatched []Unmatched
	for _, name := range driving {
		k, ok := index.key(name)
		if !ok {
			unmatched = append(unmatched, Unmatched{Name: name, Reason: ReasonNoEpisodeToken})
			continue
		}
		counterpart, ok := index.Lookup(k)
		if !ok {
			unmatched = append(unmatched, Unmatched{Name: name, Reason: ReasonNoCounterpart})
			continue
		}
		pairs = append(pairs, Pair{Key: k, Driving: name, Counterpart: counterpart})
	}
	return pairs, unmatched
}
