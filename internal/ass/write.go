package ass

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Marshal renders the document as ASS v4.00+.
func (d *Document) Marshal() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the document as ASS v4.00+.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	b.WriteString("[Script Info]\n")
	if _, ok := d.Info.Get("ScriptType"); !ok {
		b.WriteString("ScriptType: v4.00+\n")
	}
	for _, entry := range d.Info.entries {
		if entry.Comment {
			b.WriteString(entry.Value)
		} else if strings.EqualFold(entry.Key, "ScriptType") {
			b.WriteString("ScriptType: v4.00+")
		} else {
			b.WriteString(entry.Key)
			b.WriteString(": ")
			b.WriteString(entry.Value)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: " + strings.Join(styleFields, ", ") + "\n")
	for _, style := range d.Styles.items {
		b.WriteString(style.marshal())
		b.WriteByte('\n')
	}

	b.WriteString("\n[Events]\n")
	b.WriteString("Format: " + strings.Join(defaultEventFormat, ", ") + "\n")
	for _, ev := range d.Events {
		kind := ev.Kind
		if kind == "" {
			kind = KindDialogue
		}
		fmt.Fprintf(&b, "%s: %d,%s,%s,%s,%s,%d,%d,%d,%s,%s\n",
			kind, ev.Layer, FormatTimestamp(ev.Start), FormatTimestamp(ev.End),
			ev.Style, ev.Name, ev.MarginL, ev.MarginR, ev.MarginV, ev.Effect, ev.Text)
	}

	for _, section := range d.Extra {
		b.WriteString("\n[" + section.Name + "]\n")
		lines := section.Lines
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
			lines = lines[:len(lines)-1]
		}
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
