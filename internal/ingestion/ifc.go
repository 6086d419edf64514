package ingestion

import (
	"context"
	"time"
)

// ComponentCandidate is one building element extracted from an IFC model,
// offered for promotion into a persisted component record.
type ComponentCandidate struct {
	Name          string `json:"name"`
	ExternalGuid  string `json:"guid"`
	MaterialLabel string `json:"material"`
}

// IFCParser is the external geometry-parser collaborator. Implementations
// may be slow; callers run Parse under a bounded context and must treat a
// context error as a failed import.
type IFCParser interface {
	Parse(ctx context.Context, filename string, data []byte) ([]ComponentCandidate, error)
}

// StubIFCParser stands in for a real BIM parser adapter. It waits for a
// fixed delay (honoring cancellation) and returns a fixed candidate list.
type StubIFCParser struct {
	Delay time.Duration
}

func (s *StubIFCParser) Parse(ctx context.Context, filename string, data []byte) ([]ComponentCandidate, error) {
	delay := s.Delay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(delay):
	}
	return []ComponentCandidate{
		{Name: "Steel Beam HEB 200 - B001", ExternalGuid: "2N1gHkRXL8ChVYzM3QEKMz", MaterialLabel: "Structural Steel"},
		{Name: "Concrete Column C1", ExternalGuid: "3M2hGlSYM9DiWZaN4RFLNa", MaterialLabel: "Concrete C25/30"},
		{Name: "CLT Panel P001", ExternalGuid: "1L0gFlRWK7BhUXyL2PDKLz", MaterialLabel: "Cross Laminated Timber"},
	}, nil
}
