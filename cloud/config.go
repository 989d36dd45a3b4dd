package cloud

import (
	"fmt"
	"io"

	"github.com/desmondroux/Updec/stencil"
)

// DefaultSupportSize is the number of neighbours in each support stencil.
const DefaultSupportSize = 7

// Config holds configuration for creating a Cloud
type Config struct {
	Nx, Ny int // Grid points along x and y, both at least 2

	SupportSize int              // Stencil size n; zero selects DefaultSupportSize
	Search      stencil.Strategy // Neighbour search algorithm
	Workers     int              // Goroutines for the stencil search; below 2 runs serially

	Log io.Writer // Receives one progress line per construction stage; nil is silent
}

// DefaultConfig returns a 10x10 cloud with 7-point stencils searched by k-d tree.
func DefaultConfig() Config {
	return Config{
		Nx:          10,
		Ny:          10,
		SupportSize: DefaultSupportSize,
		Search:      stencil.KDTree,
		Workers:     1,
	}
}

// withDefaults fills zero-valued optional fields.
func (cfg Config) withDefaults() Config {
	if cfg.SupportSize == 0 {
		cfg.SupportSize = DefaultSupportSize
	}
	return cfg
}

// Validate reports the first field that prevents construction as a
// *ConfigurationError. Zero-valued optional fields are defaulted first.
func (cfg Config) Validate() error {
	cfg = cfg.withDefaults()
	if cfg.Nx < 2 {
		return &ConfigurationError{Field: "Nx", Value: cfg.Nx, Reason: "need at least 2 points along x"}
	}
	if cfg.Ny < 2 {
		return &ConfigurationError{Field: "Ny", Value: cfg.Ny, Reason: "need at least 2 points along y"}
	}
	if cfg.SupportSize < 1 {
		return &ConfigurationError{Field: "SupportSize", Value: cfg.SupportSize, Reason: "stencil size must be positive"}
	}
	if n := cfg.Nx * cfg.Ny; cfg.SupportSize >= n {
		return &ConfigurationError{
			Field:  "SupportSize",
			Value:  cfg.SupportSize,
			Reason: fmt.Sprintf("must be smaller than the node count N=%d, the centre node is excluded", n),
		}
	}
	return nil
}
