// Package settings loads the declarative configuration of a dispatch stack
// from YAML documents or generic maps.
//
// A document mirrors the construction record of the thunk middleware and
// adds the surrounding stack:
//
//	config:
//	  compatibilityMode: true
//	extraArguments:
//	  apiBase: https://example.test
//	logLevel: debug
//	rateLimit:
//	  rps: 50
//	  burst: 10
//	breaker:
//	  failureThreshold: 5
//	  openTimeout: 30s
//	cache:
//	  l1MaxCost: 10000
//	  redis:
//	    addr: localhost:6379
package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Thunk selects the calling convention of the thunk middleware.
type Thunk struct {
	CompatibilityMode bool `mapstructure:"compatibilityMode"`
	Continuous        bool `mapstructure:"continuous"`
}

// RateLimit configures the global dispatch limiter.
type RateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Breaker configures the dispatch circuit breaker.
type Breaker struct {
	FailureThreshold   int           `mapstructure:"failureThreshold"`
	OpenTimeout        time.Duration `mapstructure:"openTimeout"`
	HalfOpenMaxSuccess int           `mapstructure:"halfOpenMaxSuccess"`
}

// Redis locates the L2 cache.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Cache configures the cache handed to thunks.
type Cache struct {
	L1MaxCost int64  `mapstructure:"l1MaxCost"`
	Redis     *Redis `mapstructure:"redis"`
}

// Settings is the root document.
type Settings struct {
	Config         Thunk          `mapstructure:"config"`
	ExtraArguments map[string]any `mapstructure:"extraArguments"`
	LogLevel       string         `mapstructure:"logLevel"`
	RateLimit      *RateLimit     `mapstructure:"rateLimit"`
	Breaker        *Breaker       `mapstructure:"breaker"`
	Cache          *Cache         `mapstructure:"cache"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document.
func Parse(data []byte) (Settings, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Settings{}, fmt.Errorf("settings: parse yaml: %w", err)
	}
	return Decode(raw)
}

// Decode builds Settings from a generic map, e.g. one decoded from JSON.
// Unknown keys are rejected and durations may be given as strings ("5s").
func Decode(raw map[string]any) (Settings, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Settings{}, fmt.Errorf("settings: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects values no component can honour.
func (s Settings) Validate() error {
	var errs []error
	if rl := s.RateLimit; rl != nil {
		if rl.RPS <= 0 {
			errs = append(errs, errors.New("rateLimit.rps must be positive"))
		}
		if rl.Burst <= 0 {
			errs = append(errs, errors.New("rateLimit.burst must be positive"))
		}
	}
	if b := s.Breaker; b != nil {
		if b.FailureThreshold < 0 || b.HalfOpenMaxSuccess < 0 || b.OpenTimeout < 0 {
			errs = append(errs, errors.New("breaker values must not be negative"))
		}
	}
	if c := s.Cache; c != nil {
		if c.L1MaxCost < 0 {
			errs = append(errs, errors.New("cache values must not be negative"))
		}
		if c.L1MaxCost == 0 && c.Redis == nil {
			errs = append(errs, errors.New("cache needs l1MaxCost or redis"))
		}
		if c.Redis != nil && c.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
