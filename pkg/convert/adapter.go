package convert

import (
	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

// DictionaryAdapter exposes an immutable columnar dictionary through the
// legacy Mapping contract. Reads behave like a legacy dictionary; every
// mutation fails with unsupported_operation.
type DictionaryAdapter struct {
	dict *columnar.Dictionary
}

var _ legacy.Mapping = (*DictionaryAdapter)(nil)

// NewDictionaryAdapter wraps dict without copying it.
func NewDictionaryAdapter(dict *columnar.Dictionary) (*DictionaryAdapter, error) {
	if dict == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "dictionary is nil")
	}
	return &DictionaryAdapter{dict: dict}, nil
}

// NewDictionaryAdapterFromValues builds an adapter from a full value list
// whose first element is the "no value" sentinel.
func NewDictionaryAdapterFromValues(values []string) (*DictionaryAdapter, error) {
	if len(values) == 0 || values[0] != legacy.MissingValue {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "first value must be the empty sentinel")
	}
	dict, err := columnar.NewDictionary(values[1:])
	if err != nil {
		return nil, err
	}
	return &DictionaryAdapter{dict: dict}, nil
}

// Unwrap returns the wrapped columnar dictionary.
func (a *DictionaryAdapter) Unwrap() *columnar.Dictionary { return a.dict }

func (a *DictionaryAdapter) Size() int { return a.dict.Size() }

func (a *DictionaryAdapter) ValueAt(index int) (string, error) {
	if index == legacy.MissingIndex {
		return legacy.MissingValue, nil
	}
	v, err := a.dict.Value(index)
	if err != nil {
		return "", err
	}
	return v, nil
}

func (a *DictionaryAdapter) Lookup(index int) (string, bool) {
	if index <= legacy.MissingIndex || index >= a.dict.Size() {
		return "", false
	}
	v, err := a.dict.Value(index)
	return v, err == nil
}

func (a *DictionaryAdapter) IndexOf(value string) int {
	return a.dict.IndexOf(value)
}

// Intern returns the index of an existing value. Adding values is not
// supported.
func (a *DictionaryAdapter) Intern(value string) (int, error) {
	if i := a.dict.IndexOf(value); i != legacy.MissingIndex {
		return i, nil
	}
	if value == legacy.MissingValue {
		return legacy.MissingIndex, errors.New(errors.ErrorTypeInvalidArgument, "empty category is reserved for the missing value")
	}
	return legacy.MissingIndex, errors.Newf(errors.ErrorTypeUnsupportedOperation,
		"cannot add %q to an immutable dictionary", value)
}

func (a *DictionaryAdapter) Set(index int, value string) error {
	return errors.New(errors.ErrorTypeUnsupportedOperation, "cannot set values of an immutable dictionary")
}

func (a *DictionaryAdapter) Sort() error {
	return errors.New(errors.ErrorTypeUnsupportedOperation, "cannot sort an immutable dictionary")
}

func (a *DictionaryAdapter) Clear() error {
	return errors.New(errors.ErrorTypeUnsupportedOperation, "cannot clear an immutable dictionary")
}

func (a *DictionaryAdapter) PositiveIndex() (int, error) {
	switch n := a.dict.Categories(); n {
	case 1:
		return 1, nil
	case 2:
		if a.dict.IsBoolean() {
			return a.dict.Positive(), nil
		}
		return 2, nil
	default:
		return legacy.MissingIndex, errors.Newf(errors.ErrorTypeTypeMismatch,
			"positive value needs 1 or 2 categories, dictionary has %d", n)
	}
}

func (a *DictionaryAdapter) NegativeIndex() (int, error) {
	if n := a.dict.Categories(); n != 2 {
		return legacy.MissingIndex, errors.Newf(errors.ErrorTypeTypeMismatch,
			"negative value needs 2 categories, dictionary has %d", n)
	}
	pos, err := a.PositiveIndex()
	if err != nil {
		return legacy.MissingIndex, err
	}
	return 3 - pos, nil
}

func (a *DictionaryAdapter) PositiveString() (string, error) {
	i, err := a.PositiveIndex()
	if err != nil {
		return "", err
	}
	return a.dict.Value(i)
}

func (a *DictionaryAdapter) NegativeString() (string, error) {
	i, err := a.NegativeIndex()
	if err != nil {
		return "", err
	}
	return a.dict.Value(i)
}

func (a *DictionaryAdapter) Values() []string {
	return a.dict.Values()
}

// Clone returns an equal, independent and mutable legacy dictionary.
func (a *DictionaryAdapter) Clone() *legacy.Dictionary {
	return legacy.CopyOf(a, a.dict.IsBoolean())
}

// Equal reports whether m holds the same values at the same indices.
func (a *DictionaryAdapter) Equal(m legacy.Mapping) bool {
	return legacy.MappingsEqual(a, m)
}
