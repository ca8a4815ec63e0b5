// Package credential resolves the Gemini API key from an ordered list of
// sources. Each source is a Provider that either yields a value or yields
// nothing; the resolver walks the list and returns the first usable value.
// Nothing here touches the network or mutates state, so the whole chain is
// testable without stubbing globals.
package credential

import (
	"errors"
	"os"
	"strings"
)

// ErrMissingCredential is returned when no source yields a usable API key.
// Callers must not attempt a dispatch after seeing it.
var ErrMissingCredential = errors.New("no API key available from any source")

// Provider yields a candidate credential value. An empty or whitespace-only
// result means the source has nothing to offer.
type Provider interface {
	Credential() string
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func() string

// Credential implements Provider.
func (f ProviderFunc) Credential() string { return f() }

// Static returns a provider that always yields the given value. Used for
// the session-entered key and the build-time baked key.
func Static(value string) Provider {
	return ProviderFunc(func() string { return value })
}

// FromEnv returns a provider that reads the named environment variable.
func FromEnv(name string) Provider {
	return ProviderFunc(func() string { return os.Getenv(name) })
}

// Resolver picks the first usable credential from an ordered source list.
type Resolver struct {
	providers []Provider
}

// NewResolver creates a resolver over the given sources, highest
// priority first.
func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{providers: providers}
}

// Resolve returns the first non-empty, trimmed credential. An explicit
// override supplied by the caller outranks every configured source.
func (r *Resolver) Resolve(override string) (string, error) {
	if key := strings.TrimSpace(override); key != "" {
		return key, nil
	}
	for _, p := range r.providers {
		if key := strings.TrimSpace(p.Credential()); key != "" {
			return key, nil
		}
	}
	return "", ErrMissingCredential
}
