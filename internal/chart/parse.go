package chart

import (
	"fmt"
	"strconv"
	"strings"
)

// maxCols is the number of simultaneous notes a pair of feet can take.
const maxCols = 2

// Parse returns every chart in the contents of a chart file.
func Parse(contents string, format Format) ([]Chart, error) {
	if format == SSC {
		return parseSSC(contents)
	}
	return parseSM(contents)
}

func parseSM(contents string) ([]Chart, error) {
	var charts []Chart
	from := 0
	for {
		i := strings.Index(contents[from:], "#NOTES:")
		if i < 0 {
			break
		}
		start := from + i
		j := strings.IndexByte(contents[start:], ';')
		if j < 0 {
			return nil, fmt.Errorf("chart: no semicolon after #NOTES at offset %d", start)
		}
		end := start + j + 1

		body := contents[start+len("#NOTES:") : end-1]
		fields := strings.SplitN(body, ":", 6)
		if len(fields) < 6 {
			return nil, fmt.Errorf("chart: invalid metadata at offset %d", start)
		}

		ch := Chart{
			StepsType:   field(fields[0]),
			Description: field(fields[1]),
			Difficulty:  field(fields[2]),
			start:       start,
			end:         skipNewline(contents, end),
		}
		ch.setMeter(field(fields[3]))

		lines, err := parseNotes(fields[5])
		if err != nil {
			return nil, fmt.Errorf("chart: %s %s: %w", ch.StepsType, ch.Difficulty, err)
		}
		ch.Lines = lines
		charts = append(charts, ch)
		from = end
	}
	return charts, nil
}

func parseSSC(contents string) ([]Chart, error) {
	const open = "#NOTEDATA:"

	var charts []Chart
	from := 0
	for {
		i := strings.Index(contents[from:], open)
		if i < 0 {
			break
		}
		start := from + i
		end := len(contents)
		if k := strings.Index(contents[start+len(open):], open); k >= 0 {
			end = start + len(open) + k
		}

		tags, err := parseTags(contents[start:end])
		if err != nil {
			return nil, fmt.Errorf("chart: notedata at offset %d: %w", start, err)
		}

		ch := Chart{start: start, end: end}
		var notes *string
		for _, t := range tags {
			switch t.Key {
			case "NOTEDATA":
			case "STEPSTYPE":
				ch.StepsType = field(t.Value)
			case "DESCRIPTION":
				ch.Description = field(t.Value)
			case "DIFFICULTY":
				ch.Difficulty = field(t.Value)
			case "METER":
				ch.setMeter(field(t.Value))
			case "NOTES":
				v := t.Value
				notes = &v
			case "RADARVALUES":
				// stale once the notes change
			default:
				ch.Extra = append(ch.Extra, t)
			}
		}
		if notes == nil {
			return nil, fmt.Errorf("chart: notedata at offset %d has no #NOTES", start)
		}
		lines, err := parseNotes(*notes)
		if err != nil {
			return nil, fmt.Errorf("chart: %s %s: %w", ch.StepsType, ch.Difficulty, err)
		}
		ch.Lines = lines
		charts = append(charts, ch)
		from = end
	}
	return charts, nil
}

// parseTags splits #KEY:VALUE; pairs. Comments are stripped from values.
func parseTags(s string) ([]Tag, error) {
	var tags []Tag
	for {
		i := strings.IndexByte(s, '#')
		if i < 0 {
			return tags, nil
		}
		s = s[i+1:]
		colon := strings.IndexByte(s, ':')
		if colon < 0 {
			return nil, fmt.Errorf("tag without value")
		}
		semi := strings.IndexByte(s[colon:], ';')
		if semi < 0 {
			return nil, fmt.Errorf("no semicolon after #%s", s[:colon])
		}
		tags = append(tags, Tag{
			Key:   strings.ToUpper(strings.TrimSpace(s[:colon])),
			Value: s[colon+1 : colon+semi],
		})
		s = s[colon+semi+1:]
	}
}

// parseNotes parses note rows and measure separators, one per line.
func parseNotes(s string) ([]Line, error) {
	var out []Line
	for _, l := range cleanLines(s) {
		if l == "," {
			out = append(out, Line{Sep: true})
			continue
		}
		cols, err := columns(l)
		if err != nil {
			return nil, err
		}
		out = append(out, Line{Cols: cols, Width: len(l)})
	}
	return out, nil
}

// columns returns the active columns of a note row. Taps, hold and roll
// heads and lifts are active; everything else recognized is not. Only the
// first two active columns are kept.
func columns(row string) ([]int, error) {
	var cols []int
	for i, c := range row {
		switch c {
		case '1', '2', '4', 'L':
			cols = append(cols, i)
		case '0', '3', 'M', 'F':
		default:
			return nil, fmt.Errorf("unknown notes line: %s", row)
		}
	}
	if len(cols) > maxCols {
		cols = cols[:maxCols]
	}
	return cols, nil
}

// cleanLines splits s into trimmed, comment-free, non-empty lines.
func cleanLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if i := strings.Index(l, "//"); i >= 0 {
			l = l[:i]
		}
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// field cleans a metadata value.
func field(s string) string {
	return strings.Join(cleanLines(s), " ")
}

func (c *Chart) setMeter(s string) {
	c.MeterText = s
	c.Meter, _ = strconv.Atoi(s)
}

func skipNewline(s string, i int) int {
	if strings.HasPrefix(s[i:], "\r\n") {
		return i + 2
	}
	if strings.HasPrefix(s[i:], "\n") {
		return i + 1
	}
	return i
}
