package seeder

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds demo seeding settings.
type Config struct {
	Labs      int  `yaml:"labs"        env:"SEEDER_LABS"        env-default:"3"`
	PCsPerLab int  `yaml:"pcs_per_lab" env:"SEEDER_PCS_PER_LAB" env-default:"4"`
	DryRun    bool `yaml:"dry_run"     env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads seeder configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("seeder config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("seeder config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read env: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if c.Labs < 1 {
		return fmt.Errorf("labs must be at least 1 (got %d)", c.Labs)
	}
	if c.PCsPerLab < 1 {
		return fmt.Errorf("pcs_per_lab must be at least 1 (got %d)", c.PCsPerLab)
	}
	return nil
}
