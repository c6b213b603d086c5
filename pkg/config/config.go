// Package config supplies render options to the presentation pipeline.
//
// The pipeline reads settings through the narrow Provider interface so
// hosts can plug in whatever settings store they have. The production
// implementation is viper-backed (file plus environment overrides); the
// Watcher layers fsnotify-based hot reload on top for long-lived hosts.
package config

import (
	"strings"

	"github.com/spf13/viper"

	sverrors "github.com/ha1tch/sqlview/pkg/errors"
)

// Option keys recognized by the renderer.
const (
	// KeyPrettyPrintJSON enables whitespace-preserving styling on
	// JSON/JSONB cells.
	KeyPrettyPrintJSON = "results.prettyPrintJSON"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. SQLVIEW_RESULTS_PRETTYPRINTJSON.
const EnvPrefix = "SQLVIEW"

// Provider is a read-only settings lookup. Absent keys yield zero values.
type Provider interface {
	GetBool(key string) bool
	GetString(key string) string
}

// Static is a fixed map-backed Provider for tests and embedding hosts
// that manage settings themselves.
type Static map[string]any

func (s Static) GetBool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

func (s Static) GetString(key string) string {
	v, _ := s[key].(string)
	return v
}

// ViperProvider reads settings from a file, with environment overrides.
type ViperProvider struct {
	v *viper.Viper
}

// NewViperProvider loads settings from the file at path. An empty path
// skips the file and leaves only environment overrides and defaults.
func NewViperProvider(path string) (*ViperProvider, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, sverrors.Wrap(err, sverrors.ErrCodeConfigParse, "read settings file").
				WithOp("config.NewViperProvider").
				WithField("path", path).
				Err()
		}
	}

	return &ViperProvider{v: v}, nil
}

func (p *ViperProvider) GetBool(key string) bool {
	return p.v.GetBool(key)
}

func (p *ViperProvider) GetString(key string) string {
	return p.v.GetString(key)
}
