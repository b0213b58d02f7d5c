package config

import (
	"fmt"

	"github.com/graphbio/meshchem/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically. Validation
// also derives Build.Roots from the raw roots string.
func (c *Config) Validate() error {
	if err := c.Build.validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}

func (b *BuildConfig) validate() error {
	if _, ok := domain.VersionByYear(b.Version); !ok {
		return fmt.Errorf("unknown MeSH version %d", b.Version)
	}
	if b.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", b.Workers)
	}
	if b.Retries < 0 {
		return fmt.Errorf("retries must be >= 0 (got %d)", b.Retries)
	}
	if b.RetryBackoff < 0 {
		return fmt.Errorf("retry_backoff must be >= 0 (got %v)", b.RetryBackoff)
	}

	roots, err := domain.ParseRoots(b.RootsRaw)
	if err != nil {
		return fmt.Errorf("roots: %w", err)
	}
	b.Roots = roots

	return b.Settings().Validate()
}
