package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Getter returns a named setting. The boolean reports whether the key is set.
type Getter interface {
	Get(key string) (string, bool)
}

// Values is an in-memory set of named settings.
type Values map[string]string

// Get returns the value stored under key.
func (v Values) Get(key string) (string, bool) {
	val, ok := v[key]
	return val, ok
}

// LoadValues reads a flat YAML mapping of setting names to scalar values.
// Non-string scalars are stored in their YAML textual form, so
// `session_idle_time: 30` and `session_idle_time: "30"` are equivalent.
func LoadValues(path string) (Values, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadValues, err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrReadValues, err)
	}

	values := make(Values, len(doc))
	for key, node := range doc {
		if node.Kind != yaml.ScalarNode {
			return nil, errors.Join(ErrReadValues, fmt.Errorf("key %q: expected scalar value", key))
		}
		if node.Tag == "!!null" {
			continue
		}
		values[key] = node.Value
	}
	return values, nil
}

type envGetter struct{}

// Env returns a Getter backed by the process environment. Keys are
// upper-cased before lookup.
func Env() Getter {
	return envGetter{}
}

func (envGetter) Get(key string) (string, bool) {
	return os.LookupEnv(strings.ToUpper(key))
}

type chain []Getter

// Chain combines several getters. The first one holding a non-empty value
// for a key wins; nil getters are skipped.
func Chain(getters ...Getter) Getter {
	c := make(chain, 0, len(getters))
	for _, g := range getters {
		if g != nil {
			c = append(c, g)
		}
	}
	return c
}

func (c chain) Get(key string) (string, bool) {
	for _, g := range c {
		if v, ok := g.Get(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
