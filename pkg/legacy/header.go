package legacy

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Header is a dataset-shaped schema without rows. It is used for schema
// negotiation, for example to align the nominal indices of an older dataset
// to the dictionaries of a table.
type Header struct {
	attributes  []AttributeRole
	annotations Annotations
}

// NewHeader creates a header over attrs.
func NewHeader(attrs []AttributeRole, annotations Annotations) *Header {
	if annotations == nil {
		annotations = make(Annotations)
	}
	return &Header{attributes: attrs, annotations: annotations}
}

func (h *Header) Size() int { return 0 }

func (h *Header) Attributes() []AttributeRole { return h.attributes }

// Value always returns NaN: a header has no rows.
func (h *Header) Value(int, int) float64 { return math.NaN() }

func (h *Header) SetValue(int, int, float64) error {
	return errors.New(errors.ErrorTypeUnsupportedOperation, "header has no rows")
}

func (h *Header) Annotations() Annotations { return h.annotations }

func (h *Header) ThreadSafe() bool { return true }

// RemapToHeader copies set into a new dataset shaped by header. Attributes are
// matched by name; nominal cells are re-indexed onto the header's
// dictionaries, and categories unknown to the header become missing.
func RemapToHeader(set ExampleSet, header *Header) (*Dataset, error) {
	if set == nil || header == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "example set and header are required")
	}

	source := make([]int, len(header.attributes))
	for i, ar := range header.attributes {
		source[i] = AttributeIndex(set, ar.Attribute.Name)
		if source[i] < 0 {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument,
				"attribute %q missing from example set", ar.Attribute.Name)
		}
		from := set.Attributes()[source[i]].Attribute
		if from.IsNominal() != ar.Attribute.IsNominal() {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"attribute %q is %s in the example set and %s in the header", ar.Attribute.Name, from.Type, ar.Attribute.Type)
		}
	}

	out, err := NewDataset(header.attributes...)
	if err != nil {
		return nil, err
	}
	for k, v := range header.annotations {
		out.Annotate(k, v)
	}

	// per attribute: old index -> new cell value
	remaps := make([]map[int]float64, len(header.attributes))
	for i, ar := range header.attributes {
		if !ar.Attribute.IsNominal() {
			continue
		}
		from := set.Attributes()[source[i]].Attribute.Mapping
		m := make(map[int]float64, from.Size())
		for idx := 1; idx < from.Size(); idx++ {
			v, ok := from.Lookup(idx)
			if !ok {
				continue
			}
			if target := ar.Attribute.Mapping.IndexOf(v); target != MissingIndex {
				m[idx] = float64(target)
			}
		}
		remaps[i] = m
	}

	out.AddRows(set.Size(), func(row, attr int) float64 {
		v := set.Value(row, source[attr])
		if remaps[attr] == nil || math.IsNaN(v) {
			return v
		}
		if nv, ok := remaps[attr][int(v)]; ok {
			return nv
		}
		return math.NaN()
	})
	return out, nil
}
