// Package obfuscate binds a seed to a hasher and produces the name -> token
// mapping shared by the selector and tree rewriters.
package obfuscate

import (
	"errors"
	"fmt"
	"regexp"

	"cssobf/hasher"
)

var (
	ErrNoSeed        = errors.New("obfuscation seed is not set")
	ErrUnknownHasher = errors.New("unknown hasher")
	ErrBadPrefix     = errors.New("token prefix is not a valid identifier start")
)

// prefixPattern accepts prefixes after which a hex token is still a valid CSS
// identifier.
var prefixPattern = regexp.MustCompile(`^(?:-?[A-Za-z_][A-Za-z0-9_-]*|--[A-Za-z0-9_-]*)$`)

// Config is passed by value to every entry point. Zero Hasher is HMAC-SHA256.
type Config struct {
	Seed   string
	Hasher hasher.Kind
	Prefix string
}

// Validate reports configuration errors which would make tokens meaningless.
func (c Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}
	if c.Hasher.Func() == nil {
		return fmt.Errorf("%w: %s", ErrUnknownHasher, c.Hasher)
	}
	if c.Prefix != "" && !prefixPattern.MatchString(c.Prefix) {
		return fmt.Errorf("%w: %q", ErrBadPrefix, c.Prefix)
	}
	return nil
}

// Func maps an original class name to its token.
type Func func(name string) string

// New returns the obfuscation function for cfg.
func New(cfg Config) (Func, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hash, seed, prefix := cfg.Hasher.Func(), cfg.Seed, cfg.Prefix
	return func(name string) string {
		return prefix + hash(seed, name)
	}, nil
}

// Memoize returns a caching copy of fn. The cache is not synchronized and is
// meant to live for a single transform call.
func (fn Func) Memoize() Func {
	cache := make(map[string]string)
	return func(name string) string {
		if token, ok := cache[name]; ok {
			return token
		}
		token := fn(name)
		cache[name] = token
		return token
	}
}
