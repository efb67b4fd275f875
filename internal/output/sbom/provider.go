package sbom

import (
	"time"

	"github.com/google/uuid"
)

// Provider supplies the non-deterministic parts of a BOM
type Provider interface {
	// NewID returns a new unique identifier, used for bom-refs and the serial number
	NewID() string
	// Now returns the time the BOM is generated at
	Now() time.Time
}

// DefaultProvider generates random UUIDs and uses the wall clock
type DefaultProvider struct{}

func (DefaultProvider) NewID() string {
	return uuid.NewString()
}

func (DefaultProvider) Now() time.Time {
	return time.Now()
}
