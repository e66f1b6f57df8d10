package review

import (
	"github.com/houshuang/alif/pkg/acquisition"
	"github.com/houshuang/alif/pkg/fsrs"
	"github.com/houshuang/alif/pkg/leech"
)

// Config bundles the scheduler tunables the engine routes reviews through.
type Config struct {
	// Acquisition is configured once, at the top level of the config
	// file, and shared with pkg/session; see pkg/config's loader.
	Acquisition acquisition.Config `yaml:"-"`
	FSRS        fsrs.Parameters    `yaml:"fsrs"`
	Leech       leech.Config       `yaml:"leech"`
}

// DefaultConfig wires each sub-scheduler's own defaults together.
func DefaultConfig() Config {
	return Config{
		Acquisition: acquisition.DefaultConfig(),
		FSRS:        fsrs.DefaultParameters(),
		Leech:       leech.DefaultConfig(),
	}
}
