package server

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/walkroute"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// EnvPrefix is prefix of environment variables overriding configuration file
const EnvPrefix = "WALKROUTE_"

// Config is configuration of routing service
type Config struct {
	Listen          string   `json:"listen"`
	GraphFile       string   `json:"graph_file"`
	PlacesFile      string   `json:"places_file"`
	WeightAttribute string   `json:"weight_attribute"`
	HighwayTags     []string `json:"highway_tags"`
	Heuristic       string   `json:"heuristic"`
	MaxExpansions   int      `json:"max_expansions"`
	SearchTimeout   string   `json:"search_timeout"`
	CacheSize       int      `json:"cache_size"`
	CORSOrigins     []string `json:"cors_origins"`
	LogLevel        string   `json:"log_level"`

	heuristicMode walkroute.HeuristicMode
	searchTimeout time.Duration
}

// DefaultConfig returns configuration with defaults filled
func DefaultConfig() Config {
	return Config{
		Listen:          ":5000",
		WeightAttribute: "weight",
		Heuristic:       "auto",
		SearchTimeout:   "2s",
		CacheSize:       1024,
		CORSOrigins:     []string{"*"},
		LogLevel:        "info",
	}
}

// LoadConfig reads YAML (or JSON) file on top of defaults and applies WALKROUTE_* environment overrides.
// Empty fileName means defaults plus environment only
func LoadConfig(fileName string) (Config, error) {
	cfg := DefaultConfig()
	if fileName != "" {
		data, err := os.ReadFile(fileName)
		if err != nil {
			return cfg, errors.Wrapf(err, "Can't read configuration file '%s'", fileName)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "Can't parse configuration file '%s'", fileName)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields with values of WALKROUTE_<FIELD> variables
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LISTEN":           &cfg.Listen,
		"GRAPH_FILE":       &cfg.GraphFile,
		"PLACES_FILE":      &cfg.PlacesFile,
		"WEIGHT_ATTRIBUTE": &cfg.WeightAttribute,
		"HEURISTIC":        &cfg.Heuristic,
		"SEARCH_TIMEOUT":   &cfg.SearchTimeout,
		"LOG_LEVEL":        &cfg.LogLevel,
	}
	for name, field := range strs {
		if value, ok := lookup(EnvPrefix + name); ok {
			*field = value
		}
	}
	ints := map[string]*int{
		"MAX_EXPANSIONS": &cfg.MaxExpansions,
		"CACHE_SIZE":     &cfg.CacheSize,
	}
	for name, field := range ints {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errors.Wrapf(err, "Bad value of %s%s", EnvPrefix, name)
		}
		*field = parsed
	}
	lists := map[string]*[]string{
		"HIGHWAY_TAGS": &cfg.HighwayTags,
		"CORS_ORIGINS": &cfg.CORSOrigins,
	}
	for name, field := range lists {
		if value, ok := lookup(EnvPrefix + name); ok {
			*field = splitList(value)
		}
	}
	return nil
}

func splitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks configuration and prepares parsed values
func (cfg *Config) Validate() error {
	if cfg.GraphFile == "" {
		return errors.New("graph_file is required")
	}
	mode, err := walkroute.ParseHeuristicMode(cfg.Heuristic)
	if err != nil {
		return errors.Wrap(err, "Bad heuristic")
	}
	cfg.heuristicMode = mode
	timeout, err := time.ParseDuration(cfg.SearchTimeout)
	if err != nil {
		return errors.Wrapf(err, "Bad search_timeout '%s'", cfg.SearchTimeout)
	}
	if timeout < 0 {
		return errors.Errorf("search_timeout must not be negative, got %s", cfg.SearchTimeout)
	}
	cfg.searchTimeout = timeout
	if cfg.MaxExpansions < 0 {
		return errors.Errorf("max_expansions must not be negative, got %d", cfg.MaxExpansions)
	}
	if cfg.CacheSize < 0 {
		return errors.Errorf("cache_size must not be negative, got %d", cfg.CacheSize)
	}
	return nil
}

// HeuristicMode returns parsed heuristic. Valid after Validate
func (cfg *Config) HeuristicMode() walkroute.HeuristicMode {
	if cfg.heuristicMode == 0 {
		return walkroute.HeuristicAuto
	}
	return cfg.heuristicMode
}

// Timeout returns parsed search timeout. Zero means no timeout. Valid after Validate
func (cfg *Config) Timeout() time.Duration {
	return cfg.searchTimeout
}

// LoaderOptions returns options for graph loader
func (cfg *Config) LoaderOptions() []func(*walkroute.Loader) {
	options := []func(*walkroute.Loader){}
	if cfg.WeightAttribute != "" {
		options = append(options, walkroute.WithWeightAttribute(cfg.WeightAttribute))
	}
	if len(cfg.HighwayTags) > 0 {
		options = append(options, walkroute.WithHighwayTags(cfg.HighwayTags))
	}
	return options
}
