package legacy

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Transformation rewrites a raw cell value on read.
type Transformation func(float64) float64

// Attribute describes one column of a legacy dataset.
type Attribute struct {
	Name string
	Type ValueType
	// Mapping is set for nominal types only. It may be shared with other attributes.
	Mapping Mapping
	// Transformation, when set, is applied to every value read through a dataset.
	// Attributes with a transformation are never read concurrently.
	Transformation Transformation
}

// NewAttribute creates an attribute. Nominal types get a fresh dictionary.
func NewAttribute(name string, t ValueType) *Attribute {
	a := &Attribute{Name: name, Type: t}
	switch {
	case t == Binominal:
		d, _ := NewBinominalDictionary()
		a.Mapping = d
	case t.IsNominal():
		a.Mapping = NewDictionary()
	}
	return a
}

// NewNominalAttribute creates a nominal attribute over an existing mapping.
func NewNominalAttribute(name string, t ValueType, m Mapping) (*Attribute, error) {
	if !t.IsNominal() {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "%s is not a nominal type", t)
	}
	if m == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "mapping is nil")
	}
	return &Attribute{Name: name, Type: t, Mapping: m}, nil
}

// IsNominal reports whether the attribute is dictionary encoded.
func (a *Attribute) IsNominal() bool {
	return a.Type.IsNominal()
}

// HasTransformation reports whether reads are rewritten.
func (a *Attribute) HasTransformation() bool {
	return a.Transformation != nil
}

// NominalValue resolves a cell of a nominal attribute to its category.
// Missing cells and unassigned indices resolve to "", false.
func (a *Attribute) NominalValue(v float64) (string, bool) {
	if a.Mapping == nil || math.IsNaN(v) {
		return "", false
	}
	return a.Mapping.Lookup(int(v))
}

// Index interns category and returns its cell value.
func (a *Attribute) Index(category string) (float64, error) {
	if a.Mapping == nil {
		return math.NaN(), errors.Newf(errors.ErrorTypeTypeMismatch, "attribute %q is not nominal", a.Name)
	}
	i, err := a.Mapping.Intern(category)
	if err != nil {
		return math.NaN(), err
	}
	return float64(i), nil
}

// AttributeRole binds an attribute to its role within one dataset.
type AttributeRole struct {
	Attribute *Attribute
	// Role is RoleRegular for regular attributes.
	Role string
}

// Regular wraps a as a regular attribute.
func Regular(a *Attribute) AttributeRole {
	return AttributeRole{Attribute: a}
}

// Special wraps a with role.
func Special(a *Attribute, role string) AttributeRole {
	return AttributeRole{Attribute: a, Role: role}
}

// IsSpecial reports whether the attribute carries a role.
func (r AttributeRole) IsSpecial() bool {
	return r.Role != RoleRegular
}
