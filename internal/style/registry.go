package style

import (
	"fmt"
	"sort"
	"strings"
)

// Info contains display metadata about a layout.
type Info struct {
	ID        ID
	Title     string
	StepsType string
	Cols      int
	Panels    int
}

var layouts = make(map[ID]*Layout)

func init() {
	for _, d := range definitions {
		register(build(d))
	}
}

// register adds a layout to the table.
// Panics if a layout with the same ID is already registered.
func register(l *Layout) {
	if _, exists := layouts[l.id]; exists {
		panic(fmt.Sprintf("style: layout %q already registered", l.id))
	}
	if l.initCols[0] >= len(l.columns) || l.initCols[1] >= len(l.columns) {
		panic(fmt.Sprintf("style: layout %q has out of range initial columns", l.id))
	}
	layouts[l.id] = l
}

// List returns information about all layouts, sorted by ID.
func List() []Info {
	result := make([]Info, 0, len(layouts))
	for _, l := range layouts {
		result = append(result, Info{
			ID:        l.id,
			Title:     l.title,
			StepsType: l.stepsType,
			Cols:      l.NumCols(),
			Panels:    l.NumPanels(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the layout with the given ID.
func Lookup(id ID) (*Layout, error) {
	l, ok := layouts[id]
	if !ok {
		return nil, fmt.Errorf("style: unknown style %q", id)
	}
	return l, nil
}

// MustLookup is Lookup for identifiers known at compile time.
func MustLookup(id ID) *Layout {
	l, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return l
}

// Parse looks up a layout by its ID, case-insensitively.
func Parse(s string) (*Layout, error) {
	return Lookup(ID(strings.ToLower(strings.TrimSpace(s))))
}

// ParseList parses a comma-separated list of layout IDs.
func ParseList(s string) ([]*Layout, error) {
	var out []*Layout
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("style: no styles in %q", s)
	}
	return out, nil
}

// ByStepsType returns the plain (one panel per column) layout written as the
// given steps-type, if any.
func ByStepsType(stepsType string) (*Layout, bool) {
	for _, l := range layouts {
		if l.stepsType == stepsType && !l.HasBrackets() {
			return l, true
		}
	}
	return nil, false
}

// Exists checks if a layout with the given ID is registered.
func Exists(id ID) bool {
	_, ok := layouts[id]
	return ok
}
