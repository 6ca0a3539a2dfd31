package profile

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Override is one per-application entry from the persisted-settings
// collaborator. Only the logical values are consumed here; the storage
// mechanism stays external.
type Override struct {
	Methods        []string `yaml:"methods"`
	MinDistance    float64  `yaml:"min_distance_px"`
	MinDurationSec float64  `yaml:"min_duration_sec"`
	Disabled       []string `yaml:"disabled"`
}

// LoadOverrides reads a per-application override mapping from a YAML file.
func LoadOverrides(path string) (map[string]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile overrides: %w", err)
	}

	overrides := make(map[string]Override)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse profile overrides: %w", err)
	}
	return overrides, nil
}

// ApplyOverrides merges persisted per-application overrides into the
// registry. Unknown method names are skipped with a warning rather than
// failing the whole import.
func (r *Registry) ApplyOverrides(overrides map[string]Override) {
	for app, ov := range overrides {
		base := r.Resolve(app)
		p := Profile{
			MatchKey: app,
			Methods:  base.Methods,
			Gate:     base.Gate,
			Disabled: base.Disabled,
		}

		if len(ov.Methods) > 0 {
			methods := make([]Method, 0, len(ov.Methods))
			for _, m := range ov.Methods {
				if !ValidMethod(m) {
					r.logger.Warn("ignoring unknown extraction method in override",
						zap.String("app", app), zap.String("method", m))
					continue
				}
				methods = append(methods, Method(m))
			}
			if len(methods) > 0 {
				p.Methods = methods
			}
		}

		if ov.MinDistance > 0 {
			p.Gate.MinDistance = ov.MinDistance
		}
		if ov.MinDurationSec > 0 {
			p.Gate.MinDuration = time.Duration(ov.MinDurationSec * float64(time.Second))
		}

		if len(ov.Disabled) > 0 {
			p.Disabled = make(map[Method]bool, len(ov.Disabled))
			for _, m := range ov.Disabled {
				if ValidMethod(m) {
					p.Disabled[Method(m)] = true
				}
			}
		}

		r.Register(p)
		r.logger.Info("applied profile override", zap.String("app", app))
	}
}
