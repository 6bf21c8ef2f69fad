package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/shortlist/internal/app"
	"github.com/Abraxas-365/shortlist/internal/config"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/logx"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: decompress <APPLICANT_RECORD_ID>")
		os.Exit(1)
	}
	os.Exit(run(os.Args[1]))
}

func run(id string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, app.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer container.Close()

	report, err := container.Decompressor.Decompress(ctx, kernel.NewApplicantID(id))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decompression failed: %v\n", err)
		return 1
	}

	logx.Infof("Applicant %s decompressed: personal created=%t updated=%t, salary created=%t updated=%t, experience %d deleted %d created",
		report.DisplayID, report.PersonalCreated, report.PersonalUpdated,
		report.SalaryCreated, report.SalaryUpdated,
		report.ExperienceDeleted, report.ExperienceCreated)
	return 0
}
