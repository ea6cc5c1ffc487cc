package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

func TestDictionaryIntern(t *testing.T) {
	d := NewDictionary("a", "b", "a")
	assert.Equal(t, 3, d.Size())
	assert.Equal(t, 1, d.IndexOf("a"))
	assert.Equal(t, 2, d.IndexOf("b"))
	assert.Equal(t, MissingIndex, d.IndexOf("zzz"))

	i, err := d.Intern("c")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	v, err := d.ValueAt(0)
	require.NoError(t, err)
	assert.Equal(t, MissingValue, v)

	_, err = d.ValueAt(4)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
	_, err = d.ValueAt(-1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	_, ok := d.Lookup(0)
	assert.False(t, ok)
}

func TestDictionarySetCreatesHoles(t *testing.T) {
	d := NewDictionary("a")
	require.NoError(t, d.Set(3, "c"))
	assert.Equal(t, 4, d.Size())

	_, ok := d.Lookup(2)
	assert.False(t, ok)
	v, ok := d.Lookup(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	assert.Error(t, d.Set(0, "x"))
	err := d.Set(2, "a")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestDictionarySortAndClear(t *testing.T) {
	d := NewDictionary("pear", "apple", "fig")
	require.NoError(t, d.Sort())
	assert.Equal(t, []string{"", "apple", "fig", "pear"}, d.Values())

	require.NoError(t, d.Clear())
	assert.Equal(t, 1, d.Size())
	assert.Equal(t, MissingIndex, d.IndexOf("fig"))
}

func TestBinominalDictionary(t *testing.T) {
	d, err := NewBinominalDictionary("no", "yes")
	require.NoError(t, err)

	_, err = d.Intern("maybe")
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	pos, err := d.PositiveString()
	require.NoError(t, err)
	assert.Equal(t, "yes", pos)
	neg, err := d.NegativeString()
	require.NoError(t, err)
	assert.Equal(t, "no", neg)

	_, err = NewBinominalDictionary("a", "b", "c")
	assert.Error(t, err)
}

func TestPositiveNegativeCardinality(t *testing.T) {
	single := NewDictionary("only")
	pos, err := single.PositiveIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	_, err = single.NegativeIndex()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	empty := NewDictionary()
	_, err = empty.PositiveIndex()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	three := NewDictionary("a", "b", "c")
	_, err = three.PositiveIndex()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	_, err = three.NegativeString()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestCloneAndCopyOf(t *testing.T) {
	d := NewDictionary("x", "y")
	c := d.Clone()
	_, err := c.Intern("z")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Size())
	assert.Equal(t, 4, c.Size())

	cp := CopyOf(d, false)
	assert.True(t, MappingsEqual(d, cp))
	assert.False(t, MappingsEqual(d, c))
	assert.True(t, MappingsEqual(nil, nil))
	assert.False(t, MappingsEqual(d, nil))
}

func TestDictionaryRejectsMissingValue(t *testing.T) {
	d := NewDictionary("a", MissingValue, "b")
	assert.Equal(t, []string{MissingValue, "a", "b"}, d.Values())
	assert.Equal(t, MissingIndex, d.IndexOf(MissingValue))

	_, err := d.Intern(MissingValue)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
	assert.Equal(t, 3, d.Size())

	err = d.Set(1, MissingValue)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
	v, ok := d.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, err = NewBinominalDictionary("yes", MissingValue)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}
