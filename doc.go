// Package tablebridge converts between legacy row-oriented datasets and Arrow
// backed columnar tables without losing value types, roles or dictionaries.
//
// # Architecture
//
// A legacy dataset (pkg/legacy) stores every cell as a float64. Nominal
// attributes point into a dictionary whose index 0 is reserved, binominal
// attributes treat their later category as positive, and special attributes
// carry a role such as label or weight.
//
// A columnar table (pkg/columnar) stores typed columns. Nominal columns are
// dictionary encoded with position 0 as the missing value, boolean columns
// record their positive entry explicitly, and roles and original legacy types
// travel as column metadata.
//
// The conversion engine (pkg/convert) maps one to the other column by column.
// Columns are converted as independent tasks on a concurrency.Context, inline
// for small tables or sequentially on request.
//
// # Quick Start
//
//	conv := convert.New(convert.Options{})
//	pool := concurrency.NewPool(concurrency.PoolConfig{Name: "convert"}, logger.Get())
//	defer pool.Stop()
//
//	tbl, err := conv.ToTable(ctx, ds, pool)
//	if err != nil {
//	    return err
//	}
//	defer tbl.Release()
//
//	back, err := conv.ToDataset(ctx, tbl, pool)
//
// # Packages
//
//	pkg/legacy        - Row-oriented datasets, dictionaries and statistics
//	pkg/columnar      - Arrow backed tables, dictionaries and IPC streams
//	pkg/convert       - Conversion engine and dictionary adapters
//	pkg/view          - Read-only row view over a table, portable view bytes
//	pkg/concurrency   - Worker pool and sequential execution contexts
//	pkg/compression   - Codecs for serialized views
//	pkg/config        - YAML, environment and flag configuration
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus conversion metrics
//	pkg/observability - Tracing and process resource usage
//
// # Configuration
//
//	type Config struct {
//	    Conversion    ConversionConfig    // Legacy rounding mode
//	    Concurrency   ConcurrencyConfig   // Workers, small table threshold
//	    Logging       logger.Config       // Level, encoding
//	    Serialization SerializationConfig // View compression
//	    Observability ObservabilityConfig // Metrics, tracing
//	}
//
// Environment variables prefixed with TABLEBRIDGE_ override the file, and
// command line flags override both.
//
// # Command Line
//
//	tablebridge to-table iris.json -o iris.arrow
//	tablebridge inspect iris.arrow --stats
//	tablebridge to-legacy iris.arrow -o back.json
package tablebridge
