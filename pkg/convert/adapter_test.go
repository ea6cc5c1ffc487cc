package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

func TestNewDictionaryAdapterFromValues(t *testing.T) {
	a, err := NewDictionaryAdapterFromValues([]string{"", "red", "green"})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Size())
	assert.Equal(t, []string{"", "red", "green"}, a.Values())

	_, err = NewDictionaryAdapterFromValues([]string{"red", "green"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	_, err = NewDictionaryAdapterFromValues(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	_, err = NewDictionaryAdapterFromValues([]string{"", ""})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
	_, err = NewDictionaryAdapterFromValues([]string{"", "red", ""})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	_, err = NewDictionaryAdapter(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestDictionaryAdapterReads(t *testing.T) {
	dict, err := columnar.NewDictionary([]string{"red", "green", "blue"})
	require.NoError(t, err)
	a, err := NewDictionaryAdapter(dict)
	require.NoError(t, err)
	assert.Same(t, dict, a.Unwrap())

	v, err := a.ValueAt(0)
	require.NoError(t, err)
	assert.Equal(t, "", v)
	v, err = a.ValueAt(2)
	require.NoError(t, err)
	assert.Equal(t, "green", v)

	_, err = a.ValueAt(4)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
	_, err = a.ValueAt(-1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	_, ok := a.Lookup(0)
	assert.False(t, ok)
	v, ok = a.Lookup(3)
	assert.True(t, ok)
	assert.Equal(t, "blue", v)

	assert.Equal(t, 1, a.IndexOf("red"))
	assert.Equal(t, 0, a.IndexOf("purple"))

	i, err := a.Intern("blue")
	require.NoError(t, err)
	assert.Equal(t, 3, i)
}

func TestDictionaryAdapterIsImmutable(t *testing.T) {
	a, err := NewDictionaryAdapterFromValues([]string{"", "b", "a"})
	require.NoError(t, err)

	_, err = a.Intern("c")
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedOperation))
	assert.True(t, errors.IsType(a.Set(1, "z"), errors.ErrorTypeUnsupportedOperation))
	assert.True(t, errors.IsType(a.Sort(), errors.ErrorTypeUnsupportedOperation))
	assert.True(t, errors.IsType(a.Clear(), errors.ErrorTypeUnsupportedOperation))

	values := a.Values()
	values[1] = "mutated"
	assert.Equal(t, []string{"", "b", "a"}, a.Values())
}

func TestDictionaryAdapterPositiveNegative(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		positive string
		negative string
		posErr   bool
		negErr   bool
	}{
		{name: "empty", values: []string{""}, posErr: true, negErr: true},
		{name: "one", values: []string{"", "yes"}, positive: "yes", negErr: true},
		{name: "two", values: []string{"", "no", "yes"}, positive: "yes", negative: "no"},
		{name: "three", values: []string{"", "a", "b", "c"}, posErr: true, negErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewDictionaryAdapterFromValues(tt.values)
			require.NoError(t, err)

			pos, err := a.PositiveString()
			if tt.posErr {
				assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.positive, pos)
			}

			neg, err := a.NegativeString()
			if tt.negErr {
				assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.negative, neg)
			}
		})
	}
}

func TestDictionaryAdapterExplicitPositive(t *testing.T) {
	dict, err := columnar.NewBooleanDictionary([]string{"yes", "no"}, 1)
	require.NoError(t, err)
	a, err := NewDictionaryAdapter(dict)
	require.NoError(t, err)

	pos, err := a.PositiveIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	neg, err := a.NegativeString()
	require.NoError(t, err)
	assert.Equal(t, "no", neg)
}

func TestDictionaryAdapterCloneAndEqual(t *testing.T) {
	a, err := NewDictionaryAdapterFromValues([]string{"", "x", "y"})
	require.NoError(t, err)

	clone := a.Clone()
	assert.True(t, a.Equal(clone))
	assert.True(t, legacy.MappingsEqual(clone, a))

	_, err = clone.Intern("z")
	require.NoError(t, err)
	assert.False(t, a.Equal(clone))
	assert.Equal(t, 3, a.Size())

	other, err := NewDictionaryAdapterFromValues([]string{"", "y", "x"})
	require.NoError(t, err)
	assert.False(t, a.Equal(other))
	assert.True(t, a.Equal(legacy.NewDictionary("x", "y")))
}
