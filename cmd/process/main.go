package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/shortlist/internal/app"
	"github.com/Abraxas-365/shortlist/internal/config"
	"github.com/Abraxas-365/shortlist/pkg/logx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, app.Options{Evaluator: true})
	if err != nil {
		logx.Fatalf("Failed to initialize: %v", err)
	}
	defer container.Close()

	report, err := container.Processor.Run(ctx)
	if err != nil {
		logx.Errorf("Run aborted: %v", err)
		container.Close()
		os.Exit(1)
	}

	logx.Infof("Run %s finished: %d pending, %d completed, %d failed, %d shortlisted, %d leads created, %d evaluated, %d unchanged",
		report.RunID, report.Total, report.Completed, report.Failed,
		report.Shortlisted, report.LeadsCreated, report.Evaluated, report.Unchanged)
	for label, reason := range report.Failures {
		logx.Warnf("  %s: %s", label, reason)
	}
}
