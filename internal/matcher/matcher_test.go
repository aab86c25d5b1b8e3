package matcher_test

import (
	"reflect"
	"testing"

	"subsync/internal/episode"
	"subsync/internal/matcher"
)

func keyFunc(t *testing.T) matcher.KeyFunc {
	t.Helper()
	id, err := episode.New("")
	if err != nil {
		t.Fatalf("episode.New failed: %v", err)
	}
	return id.Key
}

func TestBuildIndexFirstWins(t *testing.T) {
	key := keyFunc(t)
	idx := matcher.BuildIndex([]string{"S01E01.ass", "S01E01.en.ass", "notes.txt", "S01E02.ass"}, key)

	if idx.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", idx.Len())
	}
	if name, _ := idx.Lookup("S01E01"); name != "S01E01.ass" {
		t.Fatalf("expected first name to win, got %q", name)
	}
	want := []matcher.Shadowed{{Key: "S01E01", Name: "S01E01.en.ass", Winner: "S01E01.ass"}}
	if got := idx.Shadowed(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected shadowed: %#v", got)
	}
	if keys := idx.Keys(); !reflect.DeepEqual(keys, []string{"S01E01", "S01E02"}) {
		t.Fatalf("unexpected key order %v", keys)
	}
}

func TestMatchKeepsDrivingOrder(t *testing.T) {
	key := keyFunc(t)
	idx := matcher.BuildIndex([]string{"sub.s01e01.ass", "sub.s01e03.ass", "sub.s01e02.ass"}, key)
	pairs, unmatched := matcher.Match([]string{
		"Show.S01E03.mkv",
		"Trailer.mkv",
		"Show.S01E01.mkv",
		"Show.S01E09.mkv",
		"Show.s01.e02.mkv",
	}, idx)

	wantPairs := []matcher.Pair{
		{Key: "S01E03", Driving: "Show.S01E03.mkv", Counterpart: "sub.s01e03.ass"},
		{Key: "S01E01", Driving: "Show.S01E01.mkv", Counterpart: "sub.s01e01.ass"},
		{Key: "S01E02", Driving: "Show.s01.e02.mkv", Counterpart: "sub.s01e02.ass"},
	}
	if !reflect.DeepEqual(pairs, wantPairs) {
		t.Fatalf("unexpected pairs:\n%#v", pairs)
	}
	wantUnmatched := []matcher.Unmatched{
		{Name: "Trailer.mkv", Reason: matcher.ReasonNoEpisodeToken},
		{Name: "Show.S01E09.mkv", Reason: matcher.ReasonNoCounterpart},
	}
	if !reflect.DeepEqual(unmatched, wantUnmatched) {
		t.Fatalf("unexpected unmatched:\n%#v", unmatched)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	key := keyFunc(t)
	pairs, unmatched := matcher.Match(nil, matcher.BuildIndex(nil, key))
	if len(pairs) != 0 || len(unmatched) != 0 {
		t.Fatalf("expected nothing, got %v %v", pairs, unmatched)
	}
}
