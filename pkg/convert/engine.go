// Package convert converts between row-oriented legacy datasets and columnar
// tables.
//
// A Converter maps every legacy attribute to one column and back. Value types
// and roles that have no direct columnar counterpart travel as column
// metadata hints, so a dataset converted to a table and back is identical to
// the original apart from dictionary entries no row used.
//
//	conv := convert.New(convert.Options{Logger: log})
//	pool := concurrency.NewPool(concurrency.PoolConfig{Name: "convert"}, log)
//	defer pool.Stop()
//
//	tbl, err := conv.ToTable(ctx, dataset, pool)
//	if err != nil {
//	    return err
//	}
//	defer tbl.Release()
//
//	back, err := conv.ToDataset(ctx, tbl, pool)
package convert

import (
	"context"
	"math"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/concurrency"
	"github.com/ajitpratap0/tablebridge/pkg/config"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/logger"
	"github.com/ajitpratap0/tablebridge/pkg/metrics"
	"github.com/ajitpratap0/tablebridge/pkg/observability"
	"github.com/ajitpratap0/tablebridge/pkg/pool"
)

// DefaultSmallTableCells is the rows*columns product below which column tasks
// run inline on the calling goroutine.
const DefaultSmallTableCells = 4096

// Options configures a Converter.
type Options struct {
	// LegacyMode rounds integer ties towards positive infinity.
	LegacyMode bool
	// SmallTableCells overrides DefaultSmallTableCells; negative disables
	// inline execution.
	SmallTableCells int
	Logger          *zap.Logger
	// Metrics may be nil.
	Metrics *metrics.Collector
	// Allocator backs column data; nil uses the Arrow default.
	Allocator memory.Allocator
}

// Converter converts datasets to tables and back. It is safe for concurrent
// use and never mutates its inputs.
type Converter struct {
	legacyMode bool
	smallCells int
	logger     *zap.Logger
	metrics    *metrics.Collector
	mem        memory.Allocator
}

// New creates a Converter.
func New(opts Options) *Converter {
	c := &Converter{
		legacyMode: opts.LegacyMode,
		smallCells: opts.SmallTableCells,
		logger:     logger.OrGlobal(opts.Logger),
		metrics:    opts.Metrics,
		mem:        opts.Allocator,
	}
	if c.smallCells == 0 {
		c.smallCells = DefaultSmallTableCells
	}
	if c.mem == nil {
		c.mem = memory.DefaultAllocator
	}
	return c
}

// FromConfig creates a Converter from the conversion and concurrency settings
// of cfg. Metrics are recorded on the default collector when enabled.
func FromConfig(cfg *config.Config, log *zap.Logger) *Converter {
	opts := Options{
		LegacyMode:      cfg.Conversion.LegacyMode,
		SmallTableCells: cfg.Concurrency.SmallTableCells,
		Logger:          log,
	}
	if cfg.Observability.EnableMetrics {
		opts.Metrics = metrics.Default()
	}
	return New(opts)
}

// LegacyMode reports whether legacy integer rounding is active.
func (c *Converter) LegacyMode() bool { return c.legacyMode }

// conversion carries the per-call logging and tracing state.
type conversion struct {
	ctx       context.Context
	log       *zap.Logger
	span      *observability.Span
	timer     *metrics.Timer
	direction string
	mode      string
}

func (c *Converter) begin(ctx context.Context, direction string) *conversion {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, logger.ConversionIDKey, id)
	ctx = context.WithValue(ctx, logger.DirectionKey, direction)
	ctx, span := observability.NewSpan(ctx, "tablebridge."+direction)
	span.SetAttribute("conversion.id", id)
	return &conversion{
		ctx:       ctx,
		log:       logger.WithContext(ctx, c.logger),
		span:      span,
		timer:     metrics.NewTimer(direction),
		direction: direction,
	}
}

func (c *Converter) end(cv *conversion, err error) {
	cv.span.SetAttribute("conversion.mode", cv.mode)
	cv.span.Finish(err)
	d := cv.timer.Stop()
	c.metrics.ObserveConversion(cv.direction, cv.mode, d, err)
	if err != nil {
		cv.log.Warn("conversion failed", zap.String("mode", cv.mode), zap.Duration("duration", d), zap.Error(err))
		return
	}
	cv.log.Debug("conversion completed", zap.String("mode", cv.mode), zap.Duration("duration", d))
}

// mode picks how column tasks run.
func (c *Converter) mode(exec concurrency.Context, rows, cols int, sequential bool) string {
	switch {
	case sequential:
		return metrics.ModeSequential
	case exec.Parallelism() <= 1:
		return metrics.ModeInline
	case c.smallCells > 0 && rows*cols < c.smallCells:
		return metrics.ModeInline
	}
	return metrics.ModeParallel
}

// run executes tasks on exec per mode and classifies the outcome. Stop
// signals are returned as produced; every other failure becomes
// execution_failed.
func run(ctx context.Context, exec concurrency.Context, mode string, tasks []concurrency.Task) error {
	var err error
	if mode == metrics.ModeParallel {
		if err = exec.CheckStatus(); err == nil {
			err = exec.Submit(ctx, tasks).Wait()
		}
		if err == nil {
			err = exec.CheckStatus()
		}
	} else {
		err = concurrency.Inline(ctx, exec, tasks)
	}
	if err == nil || errors.IsStopped(err) || errors.IsType(err, errors.ErrorTypeExecutionFailed) {
		return err
	}
	return errors.Wrap(err, errors.ErrorTypeExecutionFailed, "column task failed")
}

// ToTable converts set to a columnar table using exec for the column tasks.
func (c *Converter) ToTable(ctx context.Context, set legacy.ExampleSet, exec concurrency.Context) (*columnar.Table, error) {
	if exec == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "execution context is nil")
	}
	return c.toTable(ctx, set, exec, false)
}

// ToTableSequentially converts set on the calling goroutine only.
func (c *Converter) ToTableSequentially(ctx context.Context, set legacy.ExampleSet) (*columnar.Table, error) {
	return c.toTable(ctx, set, &concurrency.Sequential{}, true)
}

// columnPlan is the validated mapping of one attribute.
type columnPlan struct {
	name     string
	attr     *legacy.Attribute
	shape    ColumnShape
	roleTag  string
	roleHint string
}

func (c *Converter) toTable(ctx context.Context, set legacy.ExampleSet, exec concurrency.Context, sequential bool) (tbl *columnar.Table, err error) {
	if ctx == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "context is nil")
	}
	if set == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "example set is nil")
	}
	plans, err := planColumns(set.Attributes())
	if err != nil {
		return nil, err
	}
	rows := set.Size()

	cv := c.begin(ctx, metrics.DirectionToTable)
	cv.mode = c.mode(exec, rows, len(plans), sequential)
	cv.span.SetAttribute("table.rows", rows)
	cv.span.SetAttribute("table.columns", len(plans))
	defer func() { c.end(cv, err) }()

	// Unsafe attributes are read up front, one after another, on this goroutine.
	preread := make([][]float64, len(plans))
	unsafe := !set.ThreadSafe()
	for i, p := range plans {
		if !unsafe && !p.attr.HasTransformation() {
			continue
		}
		if err := readStatus(cv.ctx, exec); err != nil {
			releaseBuffers(preread)
			return nil, err
		}
		preread[i] = readAttribute(set, i, rows)
	}
	if unsafe {
		cv.log.Debug("example set is not thread safe, values read up front")
	}

	cols := make([]*columnar.Column, len(plans))
	tasks := make([]concurrency.Task, len(plans))
	for i := range plans {
		tasks[i] = func(ctx context.Context) error {
			values := preread[i]
			preread[i] = nil
			if values == nil {
				values = readAttribute(set, i, rows)
			}
			defer pool.Float64s.Put(values)
			col, err := c.buildColumn(plans[i], rows, values)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeExecutionFailed, "failed to convert attribute").
					WithDetail("attribute", plans[i].name)
			}
			cols[i] = col
			return nil
		}
	}
	if err := run(cv.ctx, exec, cv.mode, tasks); err != nil {
		releaseColumns(cols)
		releaseBuffers(preread)
		return nil, err
	}

	names := make([]string, len(plans))
	for i, p := range plans {
		names[i] = p.name
	}
	tbl, err = columnar.New(rows, names, cols, set.Annotations())
	if err != nil {
		releaseColumns(cols)
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to assemble table")
	}
	return tbl, nil
}

// planColumns validates attributes and resolves their column shape before any
// values are touched.
func planColumns(attrs []legacy.AttributeRole) ([]columnPlan, error) {
	plans := make([]columnPlan, len(attrs))
	names := make(map[string]struct{}, len(attrs))
	tags := make(map[string]string)
	for i, ar := range attrs {
		a := ar.Attribute
		if a == nil {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "attribute %d is nil", i)
		}
		if a.Name == "" {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "attribute %d has no name", i)
		}
		if _, dup := names[a.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "duplicate attribute name %q", a.Name)
		}
		names[a.Name] = struct{}{}
		shape, err := ColumnShapeFor(a.Type)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInvalidArgument, "unsupported attribute").
				WithDetail("attribute", a.Name)
		}
		if shape.Type == columnar.ColumnTypeNominal && a.Mapping == nil {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "nominal attribute %q has no mapping", a.Name)
		}
		tag, hint := ColumnRole(ar.Role)
		if UniqueTag(tag) {
			if other, dup := tags[tag]; dup {
				return nil, errors.Newf(errors.ErrorTypeInvalidArgument,
					"attributes %q and %q both have role %q", other, a.Name, tag)
			}
			tags[tag] = a.Name
		}
		plans[i] = columnPlan{name: a.Name, attr: a, shape: shape, roleTag: tag, roleHint: hint}
	}
	return plans, nil
}

// readStatus reports whether reading may go on: exec must not be stopped and
// ctx not cancelled.
func readStatus(ctx context.Context, exec concurrency.Context) error {
	if err := exec.CheckStatus(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExecutionStopped, "conversion cancelled")
	}
	return nil
}

// releaseBuffers returns buffers no task consumed to the pool.
func releaseBuffers(bufs [][]float64) {
	for i, b := range bufs {
		if b != nil {
			pool.Float64s.Put(b)
			bufs[i] = nil
		}
	}
}

// readAttribute copies one attribute's cells into a pooled buffer.
func readAttribute(set legacy.ExampleSet, attr, rows int) []float64 {
	values := pool.Float64s.Get(rows)
	for r := range values {
		values[r] = set.Value(r, attr)
	}
	return values
}

func (c *Converter) buildColumn(p columnPlan, rows int, values []float64) (*columnar.Column, error) {
	var col *columnar.Column
	hint := p.shape.Hint
	switch p.shape.Type {
	case columnar.ColumnTypeReal:
		col = columnar.NewRealColumn(c.mem, rows, func(r int) float64 { return values[r] })
	case columnar.ColumnTypeInteger:
		col = columnar.NewIntegerColumn(c.mem, rows, func(r int) (int64, bool) {
			return roundInteger(values[r], c.legacyMode)
		})
	case columnar.ColumnTypeDateTime:
		col = columnar.NewDateTimeColumn(c.mem, rows, func(r int) (int64, bool) { return epochMillis(values[r]) })
	case columnar.ColumnTypeTime:
		col = columnar.NewTimeColumn(c.mem, rows, func(r int) (int64, bool) { return timeOfDayNanos(values[r]) })
	case columnar.ColumnTypeNominal:
		var (
			rm  *remap
			err error
		)
		boolean := p.shape.Boolean
		if boolean {
			rm, boolean, err = rebuildBoolean(p.attr.Mapping, values)
			if err == nil && !boolean {
				hint = p.attr.Type.String()
			}
		}
		if err == nil && !boolean {
			rm, err = rebuildNominal(p.attr.Mapping, values)
		}
		if err != nil {
			return nil, err
		}
		gen := func(r int) int { return rm.position(values[r]) }
		if boolean {
			col, err = columnar.NewBooleanColumn(c.mem, rows, rm.dict, gen)
		} else {
			col, err = columnar.NewNominalColumn(c.mem, rows, rm.dict, gen)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal, "no builder for column type %s", p.shape.Type)
	}
	col = withMeta(col, columnar.MetaRole, p.roleTag)
	col = withMeta(col, columnar.MetaLegacyType, hint)
	col = withMeta(col, columnar.MetaLegacyRole, p.roleHint)
	c.metrics.ColumnConverted(metrics.DirectionToTable, p.shape.Type.String(), rows)
	return col, nil
}

// withMeta sets metadata and drops the reference to the previous column.
func withMeta(col *columnar.Column, kind columnar.MetaKind, value string) *columnar.Column {
	if value == "" {
		return col
	}
	next := col.WithMeta(kind, value)
	col.Release()
	return next
}

func releaseColumns(cols []*columnar.Column) {
	for _, col := range cols {
		if col != nil {
			col.Release()
		}
	}
}

// ToDataset converts table to a legacy dataset using exec for the column
// tasks.
func (c *Converter) ToDataset(ctx context.Context, table *columnar.Table, exec concurrency.Context) (*legacy.Dataset, error) {
	if exec == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "execution context is nil")
	}
	return c.toDataset(ctx, table, exec, false)
}

// ToDatasetSequentially converts table on the calling goroutine only.
func (c *Converter) ToDatasetSequentially(ctx context.Context, table *columnar.Table) (*legacy.Dataset, error) {
	return c.toDataset(ctx, table, &concurrency.Sequential{}, true)
}

// attributePlan is the resolved legacy shape of one column.
type attributePlan struct {
	role legacy.AttributeRole
	// swap marks boolean columns whose positive entry must move last.
	swap bool
}

func (c *Converter) toDataset(ctx context.Context, table *columnar.Table, exec concurrency.Context, sequential bool) (ds *legacy.Dataset, err error) {
	if ctx == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "context is nil")
	}
	if table == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "table is nil")
	}
	rows, width := table.Height(), table.Width()

	cv := c.begin(ctx, metrics.DirectionToDataset)
	cv.mode = c.mode(exec, rows, width, sequential)
	cv.span.SetAttribute("table.rows", rows)
	cv.span.SetAttribute("table.columns", width)
	defer func() { c.end(cv, err) }()

	plans := make([]attributePlan, width)
	attrs := make([]legacy.AttributeRole, width)
	for i := 0; i < width; i++ {
		plans[i] = c.planAttribute(cv.log, table.Name(i), table.Column(i), true)
		attrs[i] = plans[i].role
	}
	ds, err = legacy.NewDataset(attrs...)
	if err != nil {
		return nil, err
	}

	values := make([][]float64, width)
	tasks := make([]concurrency.Task, width)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			values[i] = columnValues(table.Column(i), plans[i].swap)
			c.metrics.ColumnConverted(metrics.DirectionToDataset, table.Column(i).Type().String(), rows)
			return nil
		}
	}
	if err := run(cv.ctx, exec, cv.mode, tasks); err != nil {
		return nil, err
	}

	ds.AddRows(rows, func(row, attr int) float64 { return values[attr][row] })
	for k, v := range table.Annotations() {
		ds.Annotate(k, v)
	}
	return ds, nil
}

// planAttribute derives the legacy attribute of a column. With copyDict the
// dictionary is copied into a fresh legacy dictionary; otherwise it is
// wrapped by an adapter.
func (c *Converter) planAttribute(log *zap.Logger, name string, col *columnar.Column, copyDict bool) attributePlan {
	hint, _ := col.Meta(columnar.MetaLegacyType)
	categories := 0
	if dict := col.Dictionary(); dict != nil {
		categories = dict.Categories()
	}
	vt, ignored := LegacyTypeFor(col.Type(), col.IsBoolean(), categories, hint)
	if ignored {
		log.Warn("incompatible legacy type hint ignored",
			zap.String("column", name),
			zap.String("column_type", col.Type().String()),
			zap.String("hint", hint),
			zap.String("fallback", vt.String()))
		c.metrics.HintIgnored()
	}
	tag, _ := col.Meta(columnar.MetaRole)
	roleHint, _ := col.Meta(columnar.MetaLegacyRole)

	attr := &legacy.Attribute{Name: name, Type: vt}
	plan := attributePlan{role: legacy.AttributeRole{Attribute: attr, Role: LegacyRole(tag, roleHint)}}
	if dict := col.Dictionary(); dict != nil {
		adapter, _ := NewDictionaryAdapter(dict)
		switch {
		case !copyDict:
			attr.Mapping = adapter
		case vt == legacy.Binominal && dict.Categories() == 2 && dict.Positive() == 1:
			plan.swap = true
			attr.Mapping = swappedBinominal(dict)
		case vt == legacy.Binominal:
			attr.Mapping = legacy.CopyOf(adapter, true)
		default:
			attr.Mapping = adapter.Clone()
		}
	}
	return plan
}

// swappedBinominal copies a boolean dictionary whose positive entry comes
// first into a binominal dictionary holding the positive entry last.
func swappedBinominal(dict *columnar.Dictionary) *legacy.Dictionary {
	pos, _ := dict.Value(1)
	neg, _ := dict.Value(2)
	d, _ := legacy.NewBinominalDictionary(neg, pos)
	return d
}

// columnValues copies a column into legacy cells.
func columnValues(col *columnar.Column, swap bool) []float64 {
	out := make([]float64, col.Len())
	switch col.Type() {
	case columnar.ColumnTypeNominal:
		for r := range out {
			idx := col.Index(r)
			switch {
			case idx == legacy.MissingIndex:
				out[r] = math.NaN()
			case swap:
				out[r] = float64(3 - idx)
			default:
				out[r] = float64(idx)
			}
		}
	case columnar.ColumnTypeTime:
		for r := range out {
			out[r] = legacyTime(col.Numeric(r))
		}
	default:
		for r := range out {
			out[r] = col.Numeric(r)
		}
	}
	return out
}

// Header converts the schema of table to a zero-row legacy header. Nominal
// attributes wrap the column dictionaries without copying them.
func (c *Converter) Header(table *columnar.Table) (*legacy.Header, error) {
	if table == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "table is nil")
	}
	timer := metrics.NewTimer(metrics.DirectionHeader)
	log := c.logger.With(zap.String("direction", metrics.DirectionHeader))
	attrs := make([]legacy.AttributeRole, table.Width())
	for i := range attrs {
		attrs[i] = c.planAttribute(log, table.Name(i), table.Column(i), false).role
	}
	h := legacy.NewHeader(attrs, table.Annotations())
	c.metrics.ObserveConversion(metrics.DirectionHeader, metrics.ModeInline, timer.Stop(), nil)
	log.Debug("header converted", zap.Int("columns", len(attrs)))
	return h, nil
}
