package transform_test

import (
	"errors"
	"testing"

	"subsync/internal/ass"
	"subsync/internal/config"
	"subsync/internal/services"
	"subsync/internal/transform"
)

func newDoc(t *testing.T, texts ...string) *ass.Document {
	t.Helper()
	doc := ass.New()
	doc.Info.Set("PlayResX", "1920")
	doc.Info.Set("PlayResY", "1080")
	doc.Info.Set("ScaledBorderAndShadow", "yes")
	custom := ass.NewStyle("Sign")
	custom.FontSize = 48
	doc.Styles.Put(custom)
	for _, text := range texts {
		doc.Events = append(doc.Events, ass.Event{Kind: ass.KindDialogue, Style: "Sign", Text: text})
	}
	return doc
}

func newTransformer() *transform.Transformer {
	return transform.New(transform.Options{OtherFontSize: 34, BottomFontSize: 60})
}

func TestTransformSwapsBilingualLines(t *testing.T) {
	doc := newDoc(t, `line1\Nline2`)
	if err := newTransformer().Transform(doc); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	ev := doc.Events[0]
	if ev.Text != `line2\N{\fs60}line1` {
		t.Fatalf("unexpected text %q", ev.Text)
	}
	if ev.Style != "Default" {
		t.Fatalf("expected Default style, got %q", ev.Style)
	}
}

func TestTransformStripsTagsBeforeSwap(t *testing.T) {
	doc := newDoc(t, `{\i1}上\h行{\i0}\N下行\N第三`)
	if err := newTransformer().Transform(doc); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if got := doc.Events[0].Text; got != `下行\N第三\N{\fs60}上 行` {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTransformRewritesInlineSizes(t *testing.T) {
	cases := map[string]string{
		`{\fs40}Hello`:         `{\fs34}Hello`,
		`{\fs40\i1}Hello`:      `{\fs34\i1}Hello`,
		`{\pos(1,2)\fs20}a\Nb`: `{\pos(1,2)\fs34}a\Nb`,
		`{\fscx120}wide`:       `{\fscx120}wide`,
		`{\fs40.5}fractional`:  `{\fs40.5}fractional`,
		`plain \fs40 text`:     `plain \fs40 text`,
		`{\fs12}a{\fs18\b1}b`:  `{\fs34}a{\fs34\b1}b`,
	}
	for input, want := range cases {
		doc := newDoc(t, input)
		if err := newTransformer().Transform(doc); err != nil {
			t.Fatalf("Transform(%q) failed: %v", input, err)
		}
		if got := doc.Events[0].Text; got != want {
			t.Fatalf("Transform(%q) = %q, want %q", input, got, want)
		}
		if doc.Events[0].Style != "Sign" {
			t.Fatalf("non-swapped event style changed to %q", doc.Events[0].Style)
		}
	}
}

func TestTransformNormalizesStylesAndMetadata(t *testing.T) {
	doc := newDoc(t, "hello")
	tr := newTransformer()
	if err := tr.Transform(doc); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	sign, _ := doc.Styles.Get("Sign")
	if sign.FontSize != 34 {
		t.Fatalf("expected Sign size 34, got %v", sign.FontSize)
	}
	def, _ := doc.Styles.Get("Default")
	if def.FontSize != 60 {
		t.Fatalf("template Default (60) should replace the existing style, got %v", def.FontSize)
	}
	if v, _ := doc.Info.Get("ScaledBorderAndShadow"); v != "no" {
		t.Fatalf("expected ScaledBorderAndShadow=no, got %q", v)
	}
	if _, ok := doc.Info.Get("PlayResX"); ok {
		t.Fatal("PlayResX should be removed")
	}
	if _, ok := doc.Info.Get("PlayResY"); ok {
		t.Fatal("PlayResY should be removed")
	}

	if err := tr.Transform(doc); err != nil {
		t.Fatalf("second Transform failed: %v", err)
	}
	if v, _ := doc.Info.Get("ScaledBorderAndShadow"); v != "no" {
		t.Fatalf("metadata changed on second pass: %q", v)
	}
	if sign, _ := doc.Styles.Get("Sign"); sign.FontSize != 34 {
		t.Fatalf("style size changed on second pass: %v", sign.FontSize)
	}
}

func TestTransformImportsMissingTemplateStyles(t *testing.T) {
	tmpl := ass.New()
	tmpl.Styles.Put(ass.NewStyle("Karaoke"))
	doc := newDoc(t, "hello")
	tr := transform.New(transform.Options{OtherFontSize: 34, BottomFontSize: 60, Template: tmpl})
	if err := tr.Transform(doc); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	karaoke, ok := doc.Styles.Get("Karaoke")
	if !ok {
		t.Fatal("template style should be imported")
	}
	if karaoke.FontSize != 20 {
		t.Fatalf("imported style should keep its template size, got %v", karaoke.FontSize)
	}
}

func TestTransformKeepExistingStyles(t *testing.T) {
	doc := newDoc(t, "hello")
	tr := transform.New(transform.Options{OtherFontSize: 34, BottomFontSize: 60, KeepExistingStyles: true})
	if err := tr.Transform(doc); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	def, _ := doc.Styles.Get("Default")
	if def.FontSize != 34 {
		t.Fatalf("existing Default should keep its normalized size, got %v", def.FontSize)
	}
}

func TestTransformIsStableWithDefaultConfig(t *testing.T) {
	cfg := config.Default()
	tr := transform.New(transform.Options{
		OtherFontSize:      cfg.Subtitles.OtherFontSize,
		BottomFontSize:     cfg.Subtitles.BottomFontSize,
		KeepExistingStyles: !cfg.Subtitles.TemplateOverwrite,
	})

	doc := &ass.Document{}
	doc.Info.Set("ScriptType", "v4.00+")
	other := ass.NewStyle("Other")
	other.FontSize = 48
	doc.Styles.Put(other)
	doc.Events = append(doc.Events, ass.Event{Kind: ass.KindDialogue, Style: "Other", Text: `{\fs40}sign`})

	if err := tr.Transform(doc); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	def, ok := doc.Styles.Get("Default")
	if !ok {
		t.Fatal("template Default should be imported")
	}
	if def.FontSize != 60 {
		t.Fatalf("imported Default should keep its template size, got %v", def.FontSize)
	}

	first := string(doc.Marshal())
	if err := tr.Transform(doc); err != nil {
		t.Fatalf("second Transform failed: %v", err)
	}
	if def, _ := doc.Styles.Get("Default"); def.FontSize != 60 {
		t.Fatalf("Default size changed on second pass: %v", def.FontSize)
	}
	if second := string(doc.Marshal()); second != first {
		t.Fatalf("transform not idempotent:\n%s\n---\n%s", first, second)
	}
}

func TestTransformTemplateOverwrite(t *testing.T) {
	doc := newDoc(t, "hello")
	tr := newTransformer()
	if err := tr.Transform(doc); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	first := string(doc.Marshal())
	if err := tr.Transform(doc); err != nil {
		t.Fatalf("second Transform failed: %v", err)
	}
	if second := string(doc.Marshal()); second != first {
		t.Fatalf("transform not idempotent:\n%s\n---\n%s", first, second)
	}
}

func TestTransformMalformedEvent(t *testing.T) {
	doc := newDoc(t, `ok`, `{\N}only one line`)
	err := newTransformer().Transform(doc)
	if !errors.Is(err, transform.ErrMalformedEvent) {
		t.Fatalf("expected ErrMalformedEvent, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}
