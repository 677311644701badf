package geom

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Foot identifies which foot takes a step.
type Foot int

const (
	Left Foot = iota
	Right
)

// Feet lists both feet in index order.
var Feet = [2]Foot{Left, Right}

// Other returns the opposite foot.
func (f Foot) Other() Foot {
	if f == Left {
		return Right
	}
	return Left
}

// String returns "left" or "right".
func (f Foot) String() string {
	switch f {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseFoot parses "left"/"l" or "right"/"r", case-insensitively.
func ParseFoot(s string) (Foot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return Left, fmt.Errorf("geom: unknown foot %q", s)
}

// MarshalYAML encodes the foot by name.
func (f Foot) MarshalYAML() (any, error) {
	return f.String(), nil
}

// UnmarshalYAML decodes a foot name.
func (f *Foot) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseFoot(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
