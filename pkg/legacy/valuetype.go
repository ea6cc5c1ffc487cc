package legacy

import (
	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// ValueType is the closed set of legacy attribute value types.
type ValueType int

const (
	// Nominal is the generic nominal type.
	Nominal ValueType = iota + 1
	// Numerical is the generic numeric type.
	Numerical
	// Integer holds whole numbers.
	Integer
	// Real holds floating point numbers.
	Real
	// Text holds free text, dictionary encoded.
	Text
	// Binominal is a nominal type with at most two categories.
	Binominal
	// Polynominal is a nominal type with any number of categories.
	Polynominal
	// FilePath holds file paths, dictionary encoded.
	FilePath
	// DateTime holds instants as epoch milliseconds.
	DateTime
	// Date holds calendar dates as epoch milliseconds.
	Date
	// Time holds a time of day as epoch milliseconds on the epoch day.
	Time
)

var valueTypeNames = map[ValueType]string{
	Nominal:     "nominal",
	Numerical:   "numeric",
	Integer:     "integer",
	Real:        "real",
	Text:        "text",
	Binominal:   "binominal",
	Polynominal: "polynominal",
	FilePath:    "file_path",
	DateTime:    "date_time",
	Date:        "date",
	Time:        "time",
}

// AllValueTypes lists every legacy value type in declaration order.
var AllValueTypes = []ValueType{
	Nominal, Numerical, Integer, Real, Text, Binominal, Polynominal, FilePath, DateTime, Date, Time,
}

// String returns the legacy name of the value type.
func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseValueType resolves a legacy type name.
func ParseValueType(name string) (ValueType, error) {
	for t, n := range valueTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeInvalidArgument, "unknown legacy value type %q", name)
}

// IsNominal reports whether t belongs to the nominal family.
func (t ValueType) IsNominal() bool {
	switch t {
	case Nominal, Text, Binominal, Polynominal, FilePath:
		return true
	}
	return false
}

// IsNumerical reports whether t belongs to the numeric family.
func (t ValueType) IsNumerical() bool {
	switch t {
	case Numerical, Integer, Real:
		return true
	}
	return false
}

// IsDateTime reports whether t belongs to the date family.
func (t ValueType) IsDateTime() bool {
	switch t {
	case DateTime, Date, Time:
		return true
	}
	return false
}
