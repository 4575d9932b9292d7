// Command bicsim runs the full BIC array analysis workflow: it sweeps the
// frequency band of the default structure for high-Q resonances, reports
// and plots the outcome, writes an optional results workbook, exports the
// fabrication layout, and prints Hamiltonian diagnostics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/lumenforge/bic-simulator/core"
	"github.com/lumenforge/bic-simulator/internal/logging"
	"github.com/lumenforge/bic-simulator/internal/observability"
	"github.com/lumenforge/bic-simulator/layout"
	"github.com/lumenforge/bic-simulator/model"
	"github.com/lumenforge/bic-simulator/report"
)

type options struct {
	PlotPath    string
	GDSPath     string
	XLSXPath    string
	Workers     int
	MetricsAddr string

	// Out receives the human-readable report.
	Out io.Writer
}

func main() {
	opts := options{Out: os.Stdout}
	flag.StringVar(&opts.PlotPath, "plot", "bic_resonance.png", "output path for the resonance scatter chart")
	flag.StringVar(&opts.GDSPath, "gds", "bic_array.gds", "output path for the fabrication layout")
	flag.StringVar(&opts.XLSXPath, "xlsx", "", "optional output path for the results workbook")
	flag.IntVar(&opts.Workers, "workers", 0, "sweep worker count (0 = one per CPU)")
	flag.StringVar(&opts.MetricsAddr, "metrics-addr", "", "optional listen address for Prometheus metrics")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, opts); err != nil {
		log.Error(ctx, "run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

// run executes the workflow. A simulation failure aborts the run; failures
// in the output steps (plot, workbook, layout, diagnostics) are reported and
// do not stop the remaining steps, though they still fail the run.
func run(ctx context.Context, log logging.Logger, opts options) error {
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)
	tracer := observability.Tracer("bicsim")

	collector, err := observability.NewScanCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	if opts.MetricsAddr != "" {
		serveMetrics(ctx, log, opts.MetricsAddr, collector)
	}

	params := model.DefaultParameters()
	ref := model.DefaultReference()
	rep := report.New(opts.Out)

	rep.Header()
	rep.Parameters(params)

	scanCtx, span := tracer.Start(ctx, "resonance-scan")
	scanner := core.NewScanner(log, collector, opts.Workers)
	start := time.Now()
	records, err := scanner.Scan(scanCtx, params)
	span.End()
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	log.Info(ctx, "sweep complete",
		logging.Int("resonances", len(records)),
		logging.String("elapsed", time.Since(start).String()),
	)

	rep.Results(records, ref)

	var stepErrs []error
	fail := func(step string, err error) {
		log.Error(ctx, step+" failed", logging.String("error", err.Error()))
		stepErrs = append(stepErrs, fmt.Errorf("%s: %w", step, err))
	}

	plotCtx, span := tracer.Start(ctx, "plot")
	if err := report.PlotScan(records, ref, params, opts.PlotPath); err != nil {
		fail("plot", err)
	} else {
		log.Info(plotCtx, "plot saved", logging.String("path", opts.PlotPath))
	}
	span.End()

	if opts.XLSXPath != "" {
		wbCtx, span := tracer.Start(ctx, "workbook")
		if err := report.WriteWorkbook(opts.XLSXPath, params, records, ref); err != nil {
			fail("workbook", err)
		} else {
			log.Info(wbCtx, "workbook saved", logging.String("path", opts.XLSXPath))
		}
		span.End()
	}

	gdsCtx, span := tracer.Start(ctx, "layout-export")
	if err := layout.ExportGDS(layout.Build(params), opts.GDSPath); err != nil {
		fail("layout export", err)
	} else {
		log.Info(gdsCtx, "GDSII file saved", logging.String("path", opts.GDSPath))
	}
	span.End()

	h := core.BuildHamiltonian(params.Omega0(), params)
	if diag, err := core.Diagnose(h); err != nil {
		fail("diagnostics", err)
	} else {
		rep.Diagnostics(diag)
	}

	return errors.Join(stepErrs...)
}

// serveMetrics exposes the Prometheus handler in the background for the
// lifetime of the run.
func serveMetrics(ctx context.Context, log logging.Logger, addr string, collector *observability.ScanCollector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info(ctx, "serving metrics", logging.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
