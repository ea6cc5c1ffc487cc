package columnar

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// WriteIPC writes t as a single-batch Arrow IPC stream.
func WriteIPC(w io.Writer, t *Table) error {
	rec := t.Record()
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.DefaultAllocator))
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write record batch")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to close IPC stream")
	}
	return nil
}

// ReadIPC reads a table written by WriteIPC.
func ReadIPC(r io.Reader) (*Table, error) {
	reader, err := ipc.NewReader(r, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to open IPC stream")
	}
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read record batch")
		}
		return nil, errors.New(errors.ErrorTypeData, "IPC stream holds no record batch")
	}
	t, err := FromRecord(reader.Record())
	if err != nil {
		return nil, err
	}
	if reader.Next() {
		t.Release()
		return nil, errors.New(errors.ErrorTypeData, "IPC stream holds more than one record batch")
	}
	return t, nil
}
