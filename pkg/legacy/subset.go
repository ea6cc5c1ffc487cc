package legacy

import (
	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Subset is a row selection over another example set. It shares the parent's
// attributes and cells; writes go through to the parent.
type Subset struct {
	parent ExampleSet
	rows   []int
}

// NewSubset selects rows of parent, in the given order.
func NewSubset(parent ExampleSet, rows []int) (*Subset, error) {
	if parent == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "parent example set is nil")
	}
	for _, r := range rows {
		if r < 0 || r >= parent.Size() {
			return nil, errors.Newf(errors.ErrorTypeOutOfRange, "row %d outside parent of size %d", r, parent.Size())
		}
	}
	return &Subset{parent: parent, rows: append([]int(nil), rows...)}, nil
}

func (s *Subset) Size() int { return len(s.rows) }

func (s *Subset) Attributes() []AttributeRole { return s.parent.Attributes() }

func (s *Subset) Value(row, attr int) float64 {
	return s.parent.Value(s.rows[row], attr)
}

func (s *Subset) SetValue(row, attr int, v float64) error {
	if row < 0 || row >= len(s.rows) {
		return errors.Newf(errors.ErrorTypeOutOfRange, "row %d outside subset of size %d", row, len(s.rows))
	}
	return s.parent.SetValue(s.rows[row], attr, v)
}

func (s *Subset) Annotations() Annotations { return s.parent.Annotations() }

// ThreadSafe inherits the parent's classification.
func (s *Subset) ThreadSafe() bool { return s.parent.ThreadSafe() }
