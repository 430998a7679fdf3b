// Package tuning holds the yaml-loaded runtime knobs for the trade engine.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// AllowTrade gates opening negotiation sessions at all.
	AllowTrade bool `yaml:"allow_trade"`

	// AllowNegative skips the per-denomination affordability check on confirm,
	// letting a side offer coins it does not currently hold.
	AllowNegative bool `yaml:"allow_negative"`

	DBPath     string `yaml:"db_path"`
	JournalDir string `yaml:"journal_dir"`
}

func Defaults() Tuning {
	return Tuning{
		AllowTrade:    true,
		AllowNegative: false,
		DBPath:        "./data/tradepost.db",
		JournalDir:    "./data/journal",
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
