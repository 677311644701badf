package stepgen

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/stepgen/internal/geom"
	"github.com/vovakirdan/stepgen/internal/style"
)

// ErrNoValidColumn is matched by every ExhaustedError.
var ErrNoValidColumn = errors.New("stepgen: no valid column")

// ExhaustedError reports that every column was rejected by a hard constraint.
// The generator state is left as it was before the failed call.
type ExhaustedError struct {
	Style       style.ID
	Foot        geom.Foot
	Step        int // number of steps committed before the failure
	LastCol     int // -1 when the foot has not stepped yet
	LastLastCol int
	OtherCol    int
	Rejected    map[int]string // column -> first rule that rejected it
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("stepgen: no valid column for %s foot on %s at step %d (last %d, before %d, other foot %d)",
		e.Foot, e.Style, e.Step, e.LastCol, e.LastLastCol, e.OtherCol)
}

// Is makes errors.Is(err, ErrNoValidColumn) hold.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrNoValidColumn
}
