package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/compression"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/view"
)

const (
	formatIPC  = "ipc"
	formatView = "view"
)

func newToTableCommand(a *app) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "to-table <dataset.json>",
		Short: "Convert a legacy JSON dataset to a columnar table",
		Long: `Convert a legacy JSON dataset to a columnar table.

The table is written as an Arrow IPC stream (--format ipc) or as portable
view bytes compressed with serialization.compression (--format view).

Example:
  tablebridge to-table iris.json -o iris.arrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatIPC && format != formatView {
				return fmt.Errorf("unknown format %q", format)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open dataset: %w", err)
			}
			defer f.Close()
			ds, err := legacy.ReadJSON(f)
			if err != nil {
				return err
			}

			tbl, err := a.toTable(cmd.Context(), ds)
			if err != nil {
				return err
			}
			defer tbl.Release()

			var out bytes.Buffer
			if format == formatView {
				data, err := a.marshalView(tbl)
				if err != nil {
					return err
				}
				out.Write(data)
			} else if err := columnar.WriteIPC(&out, tbl); err != nil {
				return err
			}
			if err := writeOutput(cmd, output, out.Bytes()); err != nil {
				return err
			}
			a.log.Info("dataset converted",
				zap.Int("rows", tbl.Height()),
				zap.Int("columns", tbl.Width()),
				zap.String("format", format))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", formatIPC, "Output format (ipc, view)")
	return cmd
}

func newToLegacyCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "to-legacy <table>",
		Short: "Convert a columnar table to a legacy JSON dataset",
		Long: `Convert a columnar table, given as an Arrow IPC stream or as portable
view bytes, to a legacy JSON dataset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := readTable(args[0])
			if err != nil {
				return err
			}
			defer tbl.Release()

			ds, err := a.toDataset(cmd.Context(), tbl)
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err := legacy.WriteJSON(&out, ds); err != nil {
				return err
			}
			if err := writeOutput(cmd, output, out.Bytes()); err != nil {
				return err
			}
			a.log.Info("table converted", zap.Int("rows", ds.Size()), zap.Int("attributes", len(ds.Attributes())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newHeaderCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "header <table>",
		Short: "Print the legacy header of a columnar table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := readTable(args[0])
			if err != nil {
				return err
			}
			defer tbl.Release()

			h, err := a.converter().Header(tbl)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ATTRIBUTE\tTYPE\tROLE\tVALUES")
			for _, ar := range h.Attributes() {
				values := "-"
				if m := ar.Attribute.Mapping; m != nil {
					values = fmt.Sprint(m.Size() - 1)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ar.Attribute.Name, ar.Attribute.Type, dash(ar.Role), values)
			}
			return w.Flush()
		},
	}
}

func newInspectCommand(a *app) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "inspect <table>",
		Short: "Print the columns of a columnar table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := readTable(args[0])
			if err != nil {
				return err
			}
			defer tbl.Release()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows: %d\n", tbl.Height())
			for _, k := range legacy.Annotations(tbl.Annotations()).Keys() {
				v, _ := tbl.Annotation(k)
				fmt.Fprintf(out, "annotation %s: %s\n", k, v)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tTYPE\tWIDTH\tROLE\tLEGACY TYPE\tLEGACY ROLE")
			for i := 0; i < tbl.Width(); i++ {
				col := tbl.Column(i)
				width := "-"
				if col.Type() == columnar.ColumnTypeNominal {
					width = col.Width().String()
				}
				role, _ := col.Meta(columnar.MetaRole)
				legacyType, _ := col.Meta(columnar.MetaLegacyType)
				legacyRole, _ := col.Meta(columnar.MetaLegacyRole)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tbl.Name(i), col.Type(), width, dash(role), dash(legacyType), dash(legacyRole))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !stats {
				return nil
			}

			v, err := view.New(tbl, a.converter())
			if err != nil {
				return err
			}
			w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\nATTRIBUTE\tAVERAGE\tMIN\tMAX\tMISSING\tMODE")
			for _, s := range v.Statistics() {
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%d\t%d\n", s.Attribute, s.Average, s.Min, s.Max, s.Missing, s.Mode)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "Also print per-attribute statistics")
	return cmd
}

func (a *app) marshalView(tbl *columnar.Table) ([]byte, error) {
	alg, err := compression.Parse(a.cfg.Serialization.Compression)
	if err != nil {
		return nil, err
	}
	v, err := view.New(tbl, a.converter())
	if err != nil {
		return nil, err
	}
	return v.Marshal(&compression.Config{Algorithm: alg, Level: compression.Default})
}

// readTable reads an Arrow IPC stream or serialized view bytes.
func readTable(path string) (*columnar.Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	if view.IsSerialized(data) {
		return view.UnmarshalTable(data)
	}
	return columnar.ReadIPC(bytes.NewReader(data))
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path) //nolint:gosec // G304: path comes from the command line
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
