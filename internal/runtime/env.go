// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"strings"
)

type (
	// EnvBuilder builds the environment for one process line.
	// Layers are applied in this order (later wins):
	//
	//  1. Host environment
	//  2. Dotenv file entries
	//  3. Exported recipefile variables
	//  4. Bound recipe parameters
	//
	// A fresh builder is used for every line, so nothing one line sets leaks
	// into its siblings.
	EnvBuilder struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string

		dotenv  map[string]string
		exports []string
		params  []string
	}
)

// NewEnvBuilder creates an EnvBuilder over environ, or os.Environ when nil.
func NewEnvBuilder(environ func() []string) *EnvBuilder {
	return &EnvBuilder{Environ: environ}
}

// WithDotenv adds dotenv entries on top of the host environment.
func (b *EnvBuilder) WithDotenv(env map[string]string) *EnvBuilder {
	b.dotenv = env
	return b
}

// WithExports adds exported variables as KEY=VALUE entries.
func (b *EnvBuilder) WithExports(entries []string) *EnvBuilder {
	b.exports = entries
	return b
}

// WithParams adds bound parameters as KEY=VALUE entries. Parameters win over every other layer.
func (b *EnvBuilder) WithParams(entries []string) *EnvBuilder {
	b.params = entries
	return b
}

// Base returns the host environment merged with dotenv entries. Expression
// evaluation (env(), backticks) reads this layer.
func (b *EnvBuilder) Base() []string {
	env := newEnvMap(b.environ())
	for k, v := range b.dotenv {
		env.set(k, v)
	}
	return env.slice()
}

// Build returns the complete child environment.
func (b *EnvBuilder) Build() []string {
	env := newEnvMap(b.Base())
	for _, layer := range [][]string{b.exports, b.params} {
		for _, kv := range layer {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env.set(k, v)
			}
		}
	}
	return env.slice()
}

func (b *EnvBuilder) environ() []string {
	if b.Environ != nil {
		return b.Environ()
	}
	return os.Environ()
}

// envMap keeps first-seen key order so the resulting slice is stable.
type envMap struct {
	keys   []string
	values map[string]string
}

func newEnvMap(entries []string) *envMap {
	m := &envMap{values: make(map[string]string, len(entries))}
	for _, kv := range entries {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m.set(k, v)
		}
	}
	return m
}

func (m *envMap) set(k, v string) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *envMap) slice() []string {
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k+"="+m.values[k])
	}
	return out
}
