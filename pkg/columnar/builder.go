package columnar

import (
	"context"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Builder assembles a table column by column.
type Builder struct {
	height      int
	names       []string
	columns     []*Column
	annotations map[string]string
}

// NewBuilder starts a table of height rows.
func NewBuilder(height int) *Builder {
	return &Builder{height: height, annotations: make(map[string]string)}
}

// Add appends a named column.
func (b *Builder) Add(name string, col *Column) *Builder {
	b.names = append(b.names, name)
	b.columns = append(b.columns, col)
	return b
}

// Annotate sets a table annotation.
func (b *Builder) Annotate(key, value string) *Builder {
	b.annotations[key] = value
	return b
}

// Build validates and returns the table. A cancelled ctx yields an
// execution_stopped error.
func (b *Builder) Build(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeExecutionStopped, "table build cancelled")
	}
	return New(b.height, b.names, b.columns, b.annotations)
}
