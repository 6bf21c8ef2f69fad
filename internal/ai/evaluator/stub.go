package evaluator

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

// Stub returns a fixed evaluation after a fixed delay and counts its calls
type Stub struct {
	delay  time.Duration
	result applicant.Evaluation
	calls  atomic.Int64
}

func NewStub(delay time.Duration) *Stub {
	return &Stub{
		delay: delay,
		result: applicant.Evaluation{
			Summary: "This is a fake summary generated locally. The candidate shows strong potential based on the provided data.",
			Score:   8,
			Issues:  "None",
			FollowUps: "• What was your most challenging project at your previous role?\n" +
				"• Can you elaborate on your experience with cloud technologies?",
		},
	}
}

func (s *Stub) Evaluate(ctx context.Context, document string) (*applicant.Evaluation, error) {
	s.calls.Add(1)
	logx.Debugf("Stub evaluator called (%d bytes)", len(document))

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	result := s.result
	return &result, nil
}

// Calls returns how many times Evaluate ran
func (s *Stub) Calls() int {
	return int(s.calls.Load())
}
