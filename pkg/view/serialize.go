package view

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/compression"
	"github.com/ajitpratap0/tablebridge/pkg/convert"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/pool"
)

// magic starts every serialized view, followed by one codec id byte, the
// compressed Arrow IPC stream of the table and the little-endian xxHash64 of
// the compressed stream.
var magic = []byte("TBV1")

const checksumSize = 8

// IsSerialized reports whether data starts like a serialized view.
func IsSerialized(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// MarshalBinary serializes the view's table with the default codec.
func (v *View) MarshalBinary() ([]byte, error) {
	return v.Marshal(compression.DefaultConfig())
}

// Marshal serializes the view's table with the codec of cfg.
func (v *View) Marshal(cfg *compression.Config) ([]byte, error) {
	c, err := compression.NewCompressor(cfg)
	if err != nil {
		return nil, err
	}
	id, err := c.Algorithm().ID()
	if err != nil {
		return nil, err
	}

	buf := pool.Buffers.Get()
	defer pool.Buffers.Put(buf)
	if err := columnar.WriteIPC(buf, v.table); err != nil {
		return nil, err
	}
	payload, err := c.Compress(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to compress view")
	}

	out := make([]byte, 0, len(magic)+1+len(payload)+checksumSize)
	out = append(out, magic...)
	out = append(out, id)
	out = append(out, payload...)
	return binary.LittleEndian.AppendUint64(out, xxhash.Sum64(payload)), nil
}

// UnmarshalTable restores the table of a serialized view. The caller
// releases it.
func UnmarshalTable(data []byte) (*columnar.Table, error) {
	if len(data) < len(magic)+1+checksumSize || !IsSerialized(data) {
		return nil, errors.New(errors.ErrorTypeData, "not a serialized columnar view")
	}
	alg, err := compression.FromID(data[len(magic)])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "unknown view codec")
	}
	payload := data[len(magic)+1 : len(data)-checksumSize]
	if binary.LittleEndian.Uint64(data[len(data)-checksumSize:]) != xxhash.Sum64(payload) {
		return nil, errors.New(errors.ErrorTypeData, "view checksum mismatch")
	}
	c, err := compression.NewCompressor(&compression.Config{Algorithm: alg, Level: compression.Default})
	if err != nil {
		return nil, err
	}
	raw, err := c.Decompress(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decompress view")
	}
	return columnar.ReadIPC(bytes.NewReader(raw))
}

// Unmarshal restores a serialized view in row form. A nil conv uses default
// options.
func Unmarshal(data []byte, conv *convert.Converter) (*legacy.Dataset, error) {
	tbl, err := UnmarshalTable(data)
	if err != nil {
		return nil, err
	}
	defer tbl.Release()
	if conv == nil {
		conv = convert.New(convert.Options{})
	}
	return conv.ToDatasetSequentially(context.Background(), tbl)
}
