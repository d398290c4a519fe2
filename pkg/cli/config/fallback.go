package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/buddyguard/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Fallback holds the location of an optional sample data override
type Fallback struct {
	Path string
}

// Flags returns CLI flags for Fallback configuration
func (f *Fallback) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "fallback-file",
			Usage:       "YAML file with the sample incidents and profiles served when the store is unreachable",
			Category:    "Fallback",
			Sources:     cli.EnvVars("BUDDYGUARD_FALLBACK_FILE"),
			Destination: &f.Path,
		},
	}
}

// Configure returns the built-in sample set, or the one loaded from Path
func (f *Fallback) Configure() (*model.FallbackData, error) {
	if f.Path == "" {
		return model.DefaultFallbackData(), nil
	}
	return LoadFallbackFromFile(f.Path)
}

// LogValue returns structured log value
func (f Fallback) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", f.Path))
}

// LoadFallbackFromFile loads the sample set from a YAML file
func LoadFallbackFromFile(path string) (*model.FallbackData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "fallback file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read fallback file",
			goerr.V("path", path))
	}

	var fallback model.FallbackData
	if err := yaml.Unmarshal(data, &fallback); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML fallback file",
			goerr.V("path", path))
	}

	if err := fallback.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid fallback file",
			goerr.V("path", path))
	}

	return &fallback, nil
}
