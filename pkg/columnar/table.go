package columnar

import (
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Table is an immutable ordered set of named columns of equal height with
// table-level annotations.
type Table struct {
	height      int
	names       []string
	columns     []*Column
	index       map[string]int
	annotations map[string]string
}

// New creates a table. It takes ownership of cols; names must be unique and
// every column must have height rows.
func New(height int, names []string, cols []*Column, annotations map[string]string) (*Table, error) {
	if height < 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "negative height %d", height)
	}
	if len(names) != len(cols) {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "%d names for %d columns", len(names), len(cols))
	}
	t := &Table{
		height:      height,
		names:       append([]string(nil), names...),
		columns:     append([]*Column(nil), cols...),
		index:       make(map[string]int, len(names)),
		annotations: make(map[string]string, len(annotations)),
	}
	for i, name := range names {
		if name == "" {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "column %d has no name", i)
		}
		if _, dup := t.index[name]; dup {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "duplicate column name %q", name)
		}
		if cols[i] == nil {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "column %q is nil", name)
		}
		if cols[i].Len() != height {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument,
				"column %q has %d rows, table has %d", name, cols[i].Len(), height)
		}
		t.index[name] = i
	}
	for k, v := range annotations {
		t.annotations[k] = v
	}
	return t, nil
}

// Height returns the number of rows.
func (t *Table) Height() int { return t.height }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Column returns the column at position i.
func (t *Table) Column(i int) *Column { return t.columns[i] }

// Name returns the name of the column at position i.
func (t *Table) Name(i int) string { return t.names[i] }

// Names returns the column names in order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// ColumnByName returns the named column and its position.
func (t *Table) ColumnByName(name string) (*Column, int, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, -1, false
	}
	return t.columns[i], i, true
}

// Annotations returns a copy of the table annotations.
func (t *Table) Annotations() map[string]string {
	out := make(map[string]string, len(t.annotations))
	for k, v := range t.annotations {
		out[k] = v
	}
	return out
}

// Annotation returns one annotation.
func (t *Table) Annotation(key string) (string, bool) {
	v, ok := t.annotations[key]
	return v, ok
}

// Schema returns the Arrow schema, column metadata and annotations included.
func (t *Table) Schema() *arrow.Schema {
	fields := make([]arrow.Field, len(t.columns))
	for i, c := range t.columns {
		fields[i] = c.field(t.names[i])
	}
	keys := make([]string, 0, len(t.annotations))
	for k := range t.annotations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	mdKeys := make([]string, len(keys))
	mdValues := make([]string, len(keys))
	for i, k := range keys {
		mdKeys[i] = annotationPrefix + k
		mdValues[i] = t.annotations[k]
	}
	md := arrow.NewMetadata(mdKeys, mdValues)
	return arrow.NewSchema(fields, &md)
}

// Record returns the table as an Arrow record. The caller releases it.
func (t *Table) Record() arrow.Record {
	cols := make([]arrow.Array, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.arr
	}
	return array.NewRecord(t.Schema(), cols, int64(t.height))
}

// FromRecord creates a table over rec's columns. The record may be released
// afterwards.
func FromRecord(rec arrow.Record) (*Table, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "record is nil")
	}
	schema := rec.Schema()
	names := make([]string, schema.NumFields())
	cols := make([]*Column, schema.NumFields())
	release := func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}
	for i, f := range schema.Fields() {
		c, err := columnFromArrow(f, rec.Column(i))
		if err != nil {
			release()
			return nil, err
		}
		names[i] = f.Name
		cols[i] = c
	}

	annotations := make(map[string]string)
	md := schema.Metadata()
	for i, k := range md.Keys() {
		if strings.HasPrefix(k, annotationPrefix) {
			annotations[strings.TrimPrefix(k, annotationPrefix)] = md.Values()[i]
		}
	}

	t, err := New(int(rec.NumRows()), names, cols, annotations)
	if err != nil {
		release()
		return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid record")
	}
	return t, nil
}

// Release drops the table's references to its column data.
func (t *Table) Release() {
	for _, c := range t.columns {
		c.Release()
	}
}
