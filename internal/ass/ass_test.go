package ass_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"subsync/internal/ass"
)

const sampleASS = `[Script Info]
; generated for tests
Title: Sample
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,40,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1
Style: Sign,Arial,28.5,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,8,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,你好\N{\fs40}Hello, world
Comment: 1,0:00:03.00,0:00:04.00,Sign,Bob,0010,0,0,,note
Dialogue: 0,0:00:00.50,0:00:01.00,Default,,0,0,0,,first

[Fonts]
fontname: x.ttf
ABCDEF
`

func TestParseReadsAllSections(t *testing.T) {
	doc, err := ass.Parse(sampleASS)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if v, ok := doc.Info.Get("playresx"); !ok || v != "1920" {
		t.Fatalf("expected PlayResX 1920, got %q (%v)", v, ok)
	}
	if names := doc.Styles.Names(); len(names) != 2 || names[0] != "Default" || names[1] != "Sign" {
		t.Fatalf("unexpected style order: %v", names)
	}
	sign, _ := doc.Styles.Get("Sign")
	if sign.FontSize != 28.5 || sign.Attr("Alignment") != "8" {
		t.Fatalf("unexpected Sign style: size=%v align=%s", sign.FontSize, sign.Attr("Alignment"))
	}
	if len(doc.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(doc.Events))
	}
	first := doc.Events[0]
	if first.Text != `你好\N{\fs40}Hello, world` {
		t.Fatalf("text with commas not preserved: %q", first.Text)
	}
	if first.Start != time.Second || first.End != 2500*time.Millisecond {
		t.Fatalf("unexpected timing %v-%v", first.Start, first.End)
	}
	comment := doc.Events[1]
	if comment.Kind != ass.KindComment || comment.Layer != 1 || comment.Name != "Bob" || comment.MarginL != 10 {
		t.Fatalf("unexpected comment event: %#v", comment)
	}
	if len(doc.Extra) != 1 || doc.Extra[0].Name != "Fonts" {
		t.Fatalf("expected Fonts section to be preserved, got %#v", doc.Extra)
	}
}

func TestMarshalRoundTripIsStable(t *testing.T) {
	doc, err := ass.Parse(sampleASS)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	once := doc.Marshal()
	again, err := ass.Parse(string(once))
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	twice := again.Marshal()
	if string(once) != string(twice) {
		t.Fatalf("marshal not stable:\n%s\n---\n%s", once, twice)
	}
	out := string(once)
	for _, want := range []string{
		"; generated for tests\n",
		"Style: Sign,Arial,28.5,",
		"Comment: 1,0:00:03.00,0:00:04.00,Sign,Bob,10,0,0,,note\n",
		"[Fonts]\nfontname: x.ttf\nABCDEF\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseLegacySSAStyles(t *testing.T) {
	input := "\ufeff[Script Info]\r\nScriptType: v4.00\r\n\r\n[V4 Styles]\r\n" +
		"Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, TertiaryColour, BackColour, Bold, Italic, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, AlphaLevel, Encoding\r\n" +
		"Style: Default,Arial,24,16777215,255,123,0,0,0,1,2,2,6,10,10,10,0,1\r\n\r\n" +
		"[Events]\r\nFormat: Marked, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\r\n" +
		"Dialogue: Marked=0,0:00:01.00,0:00:02.00,Default,,0000,0000,0000,,hi\r\n"
	doc, err := ass.Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	style, ok := doc.Styles.Get("Default")
	if !ok {
		t.Fatal("expected Default style")
	}
	if style.Attr("OutlineColour") != "123" || style.Attr("Alignment") != "8" {
		t.Fatalf("legacy columns not mapped: outline=%s align=%s", style.Attr("OutlineColour"), style.Attr("Alignment"))
	}
	if len(doc.Events) != 1 || doc.Events[0].Text != "hi" {
		t.Fatalf("unexpected events: %#v", doc.Events)
	}
	if !strings.Contains(string(doc.Marshal()), "ScriptType: v4.00+\n") {
		t.Fatal("expected output to be marked v4.00+")
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"no sections":   "just some text",
		"bad timestamp": "[Events]\nFormat: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\nDialogue: 0,abc,0:00:01.00,Default,,0,0,0,,x\n",
		"short event":   "[Events]\nFormat: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\nDialogue: 0,0:00:00.00\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ass.Parse(input); !errors.Is(err, ass.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestTimestamps(t *testing.T) {
	d, err := ass.ParseTimestamp("1:02:03.45")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	want := time.Hour + 2*time.Minute + 3*time.Second + 450*time.Millisecond
	if d != want {
		t.Fatalf("got %v want %v", d, want)
	}
	if got := ass.FormatTimestamp(want); got != "1:02:03.45" {
		t.Fatalf("FormatTimestamp got %q", got)
	}
	if got := ass.FormatTimestamp(1234 * time.Millisecond); got != "0:00:01.23" {
		t.Fatalf("rounding: got %q", got)
	}
	if got := ass.FormatTimestamp(1235 * time.Millisecond); got != "0:00:01.24" {
		t.Fatalf("rounding half up: got %q", got)
	}
	if got := ass.FormatTimestamp(-5 * time.Second); got != "0:00:00.00" {
		t.Fatalf("negative should clamp: got %q", got)
	}
}

func TestPlaintext(t *testing.T) {
	ev := ass.Event{Text: `{\an8}上\h行\N{\fs40}lower\nend`}
	if got := ev.Plaintext(); got != "上 行\nlower\nend" {
		t.Fatalf("unexpected plaintext %q", got)
	}
	ev.SetPlaintext("a\nb")
	if ev.Text != `a\Nb` {
		t.Fatalf("unexpected text %q", ev.Text)
	}
}

func TestRenameStyleUpdatesEvents(t *testing.T) {
	doc, _ := ass.Parse(sampleASS)
	if err := doc.RenameStyle("Default", "Chinese"); err != nil {
		t.Fatalf("RenameStyle failed: %v", err)
	}
	if _, ok := doc.Styles.Get("Default"); ok {
		t.Fatal("old style name still present")
	}
	for _, ev := range doc.Events {
		if ev.Style == "Default" {
			t.Fatalf("event still references Default: %#v", ev)
		}
	}
	if err := doc.RenameStyle("Missing", "X"); !errors.Is(err, ass.ErrStyleNotFound) {
		t.Fatalf("expected ErrStyleNotFound, got %v", err)
	}
	if err := doc.RenameStyle("Chinese", "Sign"); !errors.Is(err, ass.ErrStyleExists) {
		t.Fatalf("expected ErrStyleExists, got %v", err)
	}
}

func TestImportStylesRespectsOverwrite(t *testing.T) {
	doc, _ := ass.Parse(sampleASS)
	tmpl := ass.New()
	def, _ := tmpl.Styles.Get("Default")
	def.FontSize = 99
	tmpl.Styles.Put(ass.NewStyle("Extra"))

	added := doc.ImportStyles(tmpl, false)
	if len(added) != 1 || added[0] != "Extra" {
		t.Fatalf("unexpected added styles %v", added)
	}
	if got, _ := doc.Styles.Get("Default"); got.FontSize != 40 {
		t.Fatalf("Default overwritten without overwrite flag: %v", got.FontSize)
	}

	doc.ImportStyles(tmpl, true)
	if got, _ := doc.Styles.Get("Default"); got.FontSize != 99 {
		t.Fatalf("Default not overwritten: %v", got.FontSize)
	}
	def.FontSize = 1
	if got, _ := doc.Styles.Get("Default"); got.FontSize != 99 {
		t.Fatal("imported style shares state with template")
	}
}

func TestShiftAndSort(t *testing.T) {
	doc, _ := ass.Parse(sampleASS)
	doc.SortByStart()
	if doc.Events[0].Text != "first" {
		t.Fatalf("expected earliest event first, got %q", doc.Events[0].Text)
	}
	doc.Shift(-time.Second)
	out := string(doc.Marshal())
	if !strings.Contains(out, "Dialogue: 0,0:00:00.00,0:00:00.00,Default,,0,0,0,,first") {
		t.Fatalf("negative shift should clamp on write:\n%s", out)
	}
}

func TestParseSRT(t *testing.T) {
	input := "1\r\n00:00:01,000 --> 00:00:02,500\r\n<i>Hello</i>\r\n<font color=\"red\">world</font>\r\n\r\n2\r\n00:00:03,5 --> 00:00:04,000\r\nBye\r\n"
	doc, err := ass.ParseSRT(input)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(doc.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(doc.Events))
	}
	if doc.Events[0].Text != `{\i1}Hello{\i0}\Nworld` {
		t.Fatalf("unexpected markup conversion %q", doc.Events[0].Text)
	}
	if doc.Events[1].Start != 3005*time.Millisecond {
		t.Fatalf("unexpected short-millis parse %v", doc.Events[1].Start)
	}
	if _, ok := doc.Styles.Get(ass.DefaultStyleName); !ok {
		t.Fatal("expected Default style")
	}
}

func TestParseNamedSniffsSubRip(t *testing.T) {
	doc, err := ass.ParseNamed("episode.txt", "1\n00:00:01,000 --> 00:00:02,000\nhi\n")
	if err != nil {
		t.Fatalf("ParseNamed failed: %v", err)
	}
	if len(doc.Events) != 1 {
		t.Fatalf("expected SubRip sniffing, got %d events", len(doc.Events))
	}
}

func TestDefaultTemplateHasDefaultStyle(t *testing.T) {
	tmpl, err := ass.LoadTemplate("")
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	if _, ok := tmpl.Styles.Get(ass.DefaultStyleName); !ok {
		t.Fatal("embedded template missing Default style")
	}
}

func TestMarshalSRT(t *testing.T) {
	doc := ass.New()
	doc.Events = []ass.Event{
		{Kind: ass.KindDialogue, Start: 61*time.Second + 5*time.Millisecond, End: 62 * time.Second, Text: `{\i1}a{\i0}\Nb`},
		{Kind: ass.KindComment, Text: "hidden"},
		{Kind: ass.KindDialogue, Start: -time.Second, End: time.Hour, Text: "c"},
	}
	want := "1\n00:01:01,005 --> 00:01:02,000\na\nb\n\n2\n00:00:00,000 --> 01:00:00,000\nc\n\n"
	if got := string(doc.MarshalSRT()); got != want {
		t.Fatalf("unexpected SubRip output:\n%q", got)
	}
}
