package merge_test

import (
	"errors"
	"testing"
	"time"

	"subsync/internal/ass"
	"subsync/internal/merge"
	"subsync/internal/services"
)

func doc(events ...ass.Event) *ass.Document {
	d := ass.New()
	d.Info.Set("PlayResX", "640")
	d.Events = events
	return d
}

func event(start time.Duration, text string) ass.Event {
	return ass.Event{Kind: ass.KindDialogue, Start: start, End: start + time.Second, Style: ass.DefaultStyleName, Text: text}
}

func TestMergeOrdersAndLabelsEvents(t *testing.T) {
	left := doc(event(0, "零"), event(2*time.Second, `二{\i1}上\N下`))
	right := doc(event(time.Second, `one\Ntwo`))

	merged, _, err := merge.New(merge.Options{}).Merge(left, right)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if len(merged.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(merged.Events))
	}
	wantStarts := []time.Duration{0, time.Second, 2 * time.Second}
	wantStyles := []string{"Chinese", "English", "Chinese"}
	wantTexts := []string{"零", "one - two", "二上 - 下"}
	for i, ev := range merged.Events {
		if ev.Start != wantStarts[i] || ev.Style != wantStyles[i] || ev.Text != wantTexts[i] {
			t.Fatalf("event %d: got start=%v style=%s text=%q", i, ev.Start, ev.Style, ev.Text)
		}
	}

	for _, name := range []string{"Chinese", "English", "Default"} {
		if _, ok := merged.Styles.Get(name); !ok {
			t.Fatalf("expected style %q, have %v", name, merged.Styles.Names())
		}
	}
	if v, _ := merged.Info.Get("ScaledBorderAndShadow"); v != "no" {
		t.Fatalf("expected ScaledBorderAndShadow=no, got %q", v)
	}
	if _, ok := merged.Info.Get("PlayResX"); ok {
		t.Fatal("PlayResX should be removed")
	}
}

func TestMergeKeepsOrderOfEqualStarts(t *testing.T) {
	left := doc(event(time.Second, "左"))
	right := doc(event(time.Second, "right"))
	merged, _, err := merge.New(merge.Options{}).Merge(left, right)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if merged.Events[0].Text != "左" || merged.Events[1].Text != "right" {
		t.Fatalf("ties should keep left first: %#v", merged.Events)
	}
}

func TestMergeRequiresDefaultStyle(t *testing.T) {
	left := doc(event(0, "a"))
	left.Styles.Delete(ass.DefaultStyleName)
	_, _, err := merge.New(merge.Options{}).Merge(left, doc())
	if !errors.Is(err, services.ErrValidation) || !errors.Is(err, ass.ErrStyleNotFound) {
		t.Fatalf("expected validation error for missing Default, got %v", err)
	}
}

func TestMergeRejectsExistingLabel(t *testing.T) {
	right := doc(event(0, "a"))
	right.Styles.Put(ass.NewStyle("English"))
	_, _, err := merge.New(merge.Options{}).Merge(doc(), right)
	if !errors.Is(err, ass.ErrStyleExists) {
		t.Fatalf("expected ErrStyleExists, got %v", err)
	}
}

func TestMergeDoesNotOverwriteFromSecondary(t *testing.T) {
	left := doc()
	shared := ass.NewStyle("Sign")
	shared.FontSize = 10
	left.Styles.Put(shared)
	right := doc()
	other := ass.NewStyle("Sign")
	other.FontSize = 99
	right.Styles.Put(other)

	merged, dropped, err := merge.New(merge.Options{PrimaryStyle: "ZH", SecondaryStyle: "EN"}).Merge(left, right)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(dropped) != 1 || dropped[0] != "Sign" {
		t.Fatalf("expected Sign reported as dropped, got %v", dropped)
	}
	if sign, _ := merged.Styles.Get("Sign"); sign.FontSize != 10 {
		t.Fatalf("secondary style overwrote primary: %v", sign.FontSize)
	}
	if _, ok := merged.Styles.Get("EN"); !ok {
		t.Fatal("expected renamed secondary style")
	}
}
