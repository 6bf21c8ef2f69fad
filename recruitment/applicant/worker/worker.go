package worker

import (
	"context"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

const defaultPollTimeout = 5 * time.Second

// Decompressor is the unit of work the worker runs per request
type Decompressor interface {
	Decompress(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error)
}

// DecompressWorker consumes decompression requests one at a time
type DecompressWorker struct {
	service     Decompressor
	queue       applicant.DecompressQueue
	pollTimeout time.Duration
}

func NewDecompressWorker(service Decompressor, queue applicant.DecompressQueue) *DecompressWorker {
	return &DecompressWorker{
		service:     service,
		queue:       queue,
		pollTimeout: defaultPollTimeout,
	}
}

// Start launches the consumer and returns immediately
func (w *DecompressWorker) Start(ctx context.Context) {
	logx.Info("Starting decompress worker")
	go w.Run(ctx)
}

// Run consumes until ctx is done
func (w *DecompressWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logx.Info("Decompress worker stopping")
			return
		default:
			w.poll(ctx)
		}
	}
}

// poll handles at most one request and reports whether it did
func (w *DecompressWorker) poll(ctx context.Context) bool {
	req, err := w.queue.Dequeue(ctx, w.pollTimeout)
	if err != nil {
		if ctx.Err() == nil {
			logx.Errorf("Decompress worker dequeue error: %v", err)
			// Back off so a dead connection doesn't spin
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
		return false
	}

	// Queue timeout - nothing to do
	if req == nil {
		return false
	}

	logx.Infof("Decompress worker processing %s (queued %s ago)", req.ApplicantID, time.Since(req.RequestedAt).Round(time.Millisecond))
	if _, err := w.service.Decompress(ctx, req.ApplicantID); err != nil {
		logx.Errorf("Decompression of %s failed: %v", req.ApplicantID, err)
	}
	return true
}
