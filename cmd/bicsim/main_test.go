package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenforge/bic-simulator/internal/logging"
)

func TestRun_CancelledContextAbortsSimulation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	dir := t.TempDir()
	opts := options{
		PlotPath: filepath.Join(dir, "scan.png"),
		GDSPath:  filepath.Join(dir, "array.gds"),
		Workers:  1,
		Out:      &out,
	}

	err := run(ctx, logging.Noop(), opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run with cancelled context: got %v, want context.Canceled", err)
	}

	report := out.String()
	if !strings.Contains(report, "=== BIC RESONANCE ANALYSIS ===") {
		t.Errorf("report missing header:\n%s", report)
	}
	if strings.Contains(report, "=== NUMERICAL RESULTS ===") {
		t.Errorf("aborted run should not print results:\n%s", report)
	}
}
