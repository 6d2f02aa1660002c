package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"skucheck/internal/config"
	apierrors "skucheck/internal/errors"
	"skucheck/internal/exporter"
	"skucheck/internal/files"
	"skucheck/internal/infrastructure"
	"skucheck/internal/services"
)

type batchResult struct {
	file   files.FileInfo
	out    string
	rows   int
	atRisk int
	err    error
}

func batchCmd() *cobra.Command {
	var (
		dir     string
		pattern string
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Validate every catalog file in a directory into the exports directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return apierrors.NewParsingError("invalid --format", err)
			}
			if workers < 1 {
				return fmt.Errorf("workers must be at least 1")
			}

			paths, err := config.ResolvePaths(cfg.Paths)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = paths.DataDir
			}

			discovery := files.NewDiscovery(paths.BaseDir)
			var catalogs []files.FileInfo
			if pattern != "" {
				catalogs, err = discovery.FindFilesByPattern(dir, pattern)
			} else {
				catalogs, err = discovery.FindCatalogFiles(dir)
			}
			if err != nil {
				return err
			}
			if len(catalogs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nenhum catálogo encontrado em %s\n", dir)
				return nil
			}

			ctx, stop := signal.NotifyContext(infrastructure.EnsureTraceID(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := infrastructure.WithComponent(infrastructure.LoggerFromContext(ctx), "batch")
			log.Info("Batch started",
				slog.Int("files", len(catalogs)),
				slog.String("size", humanize.Bytes(uint64(files.TotalSize(catalogs)))),
				slog.Int("workers", workers))

			svc := services.NewValidationService(cfg.Columns, nil, nil, nil, logger)
			results := runBatch(ctx, svc, catalogs, paths, f, workers)
			for _, r := range results {
				if r.err != nil {
					infrastructure.WithError(log, r.err).Warn("Catalog failed", slog.String("file", r.file.Name))
				}
			}

			return printBatch(cmd, results)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to scan (default paths.data_dir)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "only files whose name matches this glob")
	cmd.Flags().StringVarP(&format, "format", "f", string(exporter.FormatXLSX), "output format: xlsx, csv or json")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "files validated concurrently")
	return cmd
}

// runBatch validates each catalog independently. A failing file does not
// stop the others; results keep the input order.
func runBatch(ctx context.Context, svc *services.ValidationService, catalogs []files.FileInfo, paths *config.Paths, format exporter.Format, workers int) []batchResult {
	results := make([]batchResult, len(catalogs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, catalog := range catalogs {
		g.Go(func() error {
			r := batchResult{file: catalog}
			defer func() { results[i] = r }()

			res, err := svc.Run(ctx, services.RunRequest{Primary: services.Source{Path: catalog.Path}})
			if err != nil {
				r.err = err
				return nil
			}
			r.out = paths.ExportPath(catalog.Name, format.Extension())
			if err := exporter.ExportFile(r.out, format, res.TableResult); err != nil {
				r.err = err
				return nil
			}
			r.rows = res.Summary.TotalRecords
			r.atRisk = res.Summary.RecordsAtRisk
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printBatch(cmd *cobra.Command, results []batchResult) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ARQUIVO\tTAMANHO\tSKUS\tCOM PROBLEMA\tRESULTADO")

	failed := 0
	for _, r := range results {
		outcome := r.out
		if r.err != nil {
			failed++
			outcome = "erro: " + r.err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.file.Name, humanize.Bytes(uint64(r.file.Size)), r.rows, r.atRisk, outcome)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
