package sbom_test

import (
	"fmt"
	"time"
)

// sequentialProvider hands out predictable identifiers and a fixed time
type sequentialProvider struct {
	next int
}

func (p *sequentialProvider) NewID() string {
	p.next++

	return fmt.Sprintf("00000000-0000-4000-8000-%012d", p.next)
}

func (p *sequentialProvider) Now() time.Time {
	return time.Date(2025, time.June, 1, 10, 15, 30, 0, time.FixedZone("UTC+8", 8*60*60))
}

func ptr[T any](v T) *T {
	return &v
}
