package chart

import (
	"strings"
)

// metadataIndent matches the indentation StepMania writes.
const metadataIndent = "     "

// Render writes a chart whose rows are given as panel strings.
// Separator lines are taken from rows with an empty text.
func Render(meta Chart, rows []string, format Format) string {
	var b strings.Builder
	if format == SSC {
		renderSSCHeader(&b, meta)
	} else {
		renderSMHeader(&b, meta)
	}
	for _, r := range rows {
		if r == "" {
			b.WriteString(",\n")
			continue
		}
		b.WriteString(r)
		b.WriteByte('\n')
	}
	b.WriteString(";\n")
	return b.String()
}

func renderSMHeader(b *strings.Builder, c Chart) {
	b.WriteString("#NOTES:\n")
	for _, v := range []string{c.StepsType, c.Description, c.Difficulty, c.MeterText, ""} {
		b.WriteString(metadataIndent)
		b.WriteString(v)
		b.WriteString(":\n")
	}
}

func renderSSCHeader(b *strings.Builder, c Chart) {
	writeTag(b, "NOTEDATA", "")
	writeTag(b, "STEPSTYPE", c.StepsType)
	writeTag(b, "DESCRIPTION", c.Description)
	writeTag(b, "DIFFICULTY", c.Difficulty)
	writeTag(b, "METER", c.MeterText)
	for _, t := range c.Extra {
		writeTag(b, t.Key, t.Value)
	}
	b.WriteString("#NOTES:\n")
}

func writeTag(b *strings.Builder, key, value string) {
	b.WriteByte('#')
	b.WriteString(key)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteString(";\n")
}
