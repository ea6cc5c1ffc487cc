package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

func TestRoundTripAllAlgorithms(t *testing.T) {
	original := bytes.Repeat([]byte("dictionary-encoded column content "), 200)
	for _, algo := range Algorithms {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(algo), func(t *testing.T) {
				comp, err := NewCompressor(&Config{Algorithm: algo, Level: level})
				require.NoError(t, err)
				assert.Equal(t, algo, comp.Algorithm())
				assert.Equal(t, level, comp.Level())

				compressed, err := comp.Compress(original)
				require.NoError(t, err)
				if algo != None {
					assert.Less(t, len(compressed), len(original))
				}
				back, err := comp.Decompress(compressed)
				require.NoError(t, err)
				assert.Equal(t, original, back)
			})
		}
	}
}

func TestEmptyInput(t *testing.T) {
	for _, algo := range Algorithms {
		comp, err := NewCompressor(&Config{Algorithm: algo})
		require.NoError(t, err)
		compressed, err := comp.Compress(nil)
		require.NoError(t, err)
		back, err := comp.Decompress(compressed)
		require.NoError(t, err)
		assert.Empty(t, back, algo)
	}
}

func TestIDs(t *testing.T) {
	for _, algo := range Algorithms {
		id, err := algo.ID()
		require.NoError(t, err)
		back, err := FromID(id)
		require.NoError(t, err)
		assert.Equal(t, algo, back)
	}
	_, err := FromID(200)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
	_, err = Algorithm("brotli").ID()
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestParse(t *testing.T) {
	a, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, None, a)
	a, err = Parse("lz4")
	require.NoError(t, err)
	assert.Equal(t, LZ4, a)
	_, err = Parse("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	_, err = NewCompressor(&Config{Algorithm: "brotli"})
	assert.Error(t, err)
	comp, err := NewCompressor(nil)
	require.NoError(t, err)
	assert.Equal(t, Zstd, comp.Algorithm())
}

func TestCorruptInput(t *testing.T) {
	for _, algo := range []Algorithm{Gzip, Snappy, Zstd, S2} {
		comp, err := NewCompressor(&Config{Algorithm: algo})
		require.NoError(t, err)
		_, err = comp.Decompress([]byte("definitely not compressed"))
		assert.Error(t, err, algo)
	}
}
