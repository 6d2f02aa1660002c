package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"skucheck/internal/config"
	apierrors "skucheck/internal/errors"
	"skucheck/internal/exporter"
	"skucheck/internal/infrastructure"
	"skucheck/internal/services"
	"skucheck/internal/validation"
)

type validateOptions struct {
	input      string
	aux        string
	auxColumns []string
	joinKey    string
	out        string
	format     string
	toExports  bool
	summary    string
}

func validateCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Annotate a catalog file and write the processed export",
		Example: `  skucheck validate --input catalogo.xlsx
  skucheck validate -i catalogo.csv --aux vendas.csv --aux-columns "Vendas em volume" -f csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "catalog file (.xlsx, .xlsm, .csv, .txt)")
	f.StringVar(&opts.aux, "aux", "", "auxiliary file left-joined onto the catalog")
	f.StringSliceVar(&opts.auxColumns, "aux-columns", nil, "auxiliary columns to append (default all)")
	f.StringVar(&opts.joinKey, "join-key", "", "join column name, overriding the configured aliases")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default <input>_processado.<format>)")
	f.StringVarP(&opts.format, "format", "f", string(exporter.FormatXLSX), "output format: xlsx, csv or json")
	f.BoolVar(&opts.toExports, "to-exports", false, "write the default output into the configured exports directory")
	f.StringVar(&opts.summary, "summary", "", "also write the summary table as CSV (\"-\" for stdout); relative paths go to the exports directory")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return apierrors.NewParsingError("invalid --format", err)
	}

	ctx, stop := signal.NotifyContext(infrastructure.EnsureTraceID(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return err
	}

	// The CLI never serves /metrics, so only tracing is set up
	telemetry := cfg.Telemetry
	telemetry.MetricExporter = "none"
	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(telemetry), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	svc := services.NewValidationService(cfg.Columns, nil, nil, providers.Tracer, logger)

	req := services.RunRequest{
		Primary:    services.Source{Path: opts.input},
		AuxColumns: opts.auxColumns,
		JoinKey:    opts.joinKey,
	}
	if opts.aux != "" {
		req.Aux = &services.Source{Path: opts.aux}
	}

	res, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	out := outputPath(opts, format, paths)
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(filepath.Dir(out)); err != nil {
		return err
	}
	if config.FileExists(out) {
		logger.Warn("Overwriting existing export", slog.String("path", out))
	}
	if err := exporter.ExportFile(out, format, res.TableResult); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if err := printSummary(w, res); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nArquivo gerado: %s (%s)\n", out, fileSize(out))

	switch opts.summary {
	case "":
	case "-":
		fmt.Fprintln(w)
		if err := exporter.NewCSVWriter(paths).WriteSummary(w, res.Summary); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	default:
		path, err := exporter.NewCSVWriter(paths).WriteSummaryFile(opts.summary, res.Summary)
		if err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		fmt.Fprintf(w, "Resumo: %s\n", path)
	}
	return nil
}

// outputPath picks the export destination. Without --out the export sits
// next to the input, or in the exports directory with --to-exports.
func outputPath(opts validateOptions, format exporter.Format, paths *config.Paths) string {
	if opts.out != "" {
		return opts.out
	}
	if opts.toExports {
		return paths.ExportPath(opts.input, format.Extension())
	}
	return filepath.Join(filepath.Dir(opts.input), config.ExportFileName(opts.input, format.Extension()))
}

func printSummary(w io.Writer, res *services.RunResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Fonte\t%s\n", res.Source)
	fmt.Fprintf(tw, "Execução\t%s\n", res.RunID)
	if res.Join != nil {
		fmt.Fprintf(tw, "Junção\t%d combinados, %d sem par\n", res.Join.Matched, res.Join.Unmatched)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Métrica\tValor")
	for _, m := range res.Summary.Metrics() {
		fmt.Fprintf(tw, "%s\t%s\n", m.Name, m.Value)
	}
	return tw.Flush()
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size()))
}
