package gothunker

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Keksclan/goThunker/dispatch"
)

// Enhancer computes an extra argument from the store capabilities current
// at dispatch time.
type Enhancer[S any] func(api dispatch.API[S]) any

// factory is the normalized form of every accepted enhancer shape.
type factory[S any] func(api dispatch.API[S]) (any, error)

// asFactory accepts Enhancer[S], func(dispatch.API[S]) any and
// func(dispatch.API[S]) (any, error). Nil functions are rejected.
func asFactory[S any](v any) (factory[S], bool) {
	switch f := v.(type) {
	case Enhancer[S]:
		if f != nil {
			return func(api dispatch.API[S]) (any, error) { return f(api), nil }, true
		}
	case func(dispatch.API[S]) any:
		if f != nil {
			return func(api dispatch.API[S]) (any, error) { return f(api), nil }, true
		}
	case func(dispatch.API[S]) (any, error):
		if f != nil {
			return f, true
		}
	}
	return nil, false
}

// validateEnhancers checks every entry before any of them runs. Keys are
// visited in sorted order so the reported key is deterministic.
func validateEnhancers[S any](toEnhance map[string]any) ([]string, map[string]factory[S], error) {
	keys := slices.Sorted(maps.Keys(toEnhance))
	factories := make(map[string]factory[S], len(keys))
	for _, key := range keys {
		f, ok := asFactory[S](toEnhance[key])
		if !ok {
			return nil, nil, &ConfigurationError{Key: key, Value: toEnhance[key], Err: ErrNotInvocable}
		}
		factories[key] = f
	}
	return keys, factories, nil
}

// EnhanceArguments evaluates every factory in toEnhance against api and
// returns the results under the same keys.
//
// It returns (nil, nil) when toEnhance is empty. When any entry is not an
// accepted factory a *ConfigurationError naming it is returned and no
// factory runs. An error from a fallible factory stops enhancement.
func EnhanceArguments[S any](toEnhance map[string]any, api dispatch.API[S]) (Extras, error) {
	if len(toEnhance) == 0 {
		return nil, nil
	}

	keys, factories, err := validateEnhancers[S](toEnhance)
	if err != nil {
		return nil, err
	}

	enhanced := make(Extras, len(keys))
	for _, key := range keys {
		v, err := factories[key](api)
		if err != nil {
			return nil, fmt.Errorf("gothunker: enhance %q: %w", key, err)
		}
		enhanced[key] = v
	}
	return enhanced, nil
}
