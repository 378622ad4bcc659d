package relay

import (
	"sort"
	"strings"
)

// Provider is a named external model endpoint with its credential pool.
type Provider struct {
	Name        string
	Credentials []string // Tried in order; never logged
	Model       string   // Default model
	MaxTokens   int      // Output token ceiling; 0 means no provider limit
	Caller      Caller
}

// Configured reports whether the provider can be called.
func (p Provider) Configured() bool {
	return p.Caller != nil && len(p.Credentials) > 0
}

// Registry maps provider names to providers and defines the default fallback order.
// It is immutable once built.
type Registry struct {
	providers map[string]Provider
	order     []string
	aliases   map[string]string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAliases maps model ids to provider names so callers may name a model instead of a provider.
func WithAliases(aliases map[string]string) RegistryOption {
	return func(r *Registry) {
		for k, v := range aliases {
			r.aliases[strings.ToLower(k)] = strings.ToLower(v)
		}
	}
}

// NewRegistry builds a registry. Providers without credentials are kept so they can be reported
// but are never returned by Resolve or Targets. Order entries naming unknown providers are kept
// and skipped at lookup.
func NewRegistry(order []string, providers []Provider, opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: make(map[string]Provider, len(providers)),
		aliases:   make(map[string]string),
	}
	for _, p := range providers {
		p.Name = strings.ToLower(p.Name)
		p.Credentials = append([]string(nil), p.Credentials...)
		r.providers[p.Name] = p
	}
	for _, name := range order {
		r.order = append(r.order, strings.ToLower(strings.TrimSpace(name)))
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the named provider. Unknown providers and providers without credentials
// yield ErrNotConfigured.
func (r *Registry) Resolve(name string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(name)]
	if !ok || !p.Configured() {
		return Provider{}, ErrNotConfigured
	}
	return p, nil
}

// Lookup maps a capability (provider name or aliased model id) to a provider name.
// Empty capability resolves to "" with ok true, meaning the default order.
func (r *Registry) Lookup(capability string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(capability))
	if c == "" {
		return "", true
	}
	if _, ok := r.providers[c]; ok {
		return c, true
	}
	if name, ok := r.aliases[c]; ok {
		return name, true
	}
	return "", false
}

// Targets returns the configured providers to try: preferred first, then the default order,
// without duplicates.
func (r *Registry) Targets(preferred string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		if p, ok := r.providers[name]; ok && p.Configured() {
			out = append(out, name)
		}
	}

	add(strings.ToLower(preferred))
	for _, name := range r.order {
		add(name)
	}
	return out
}

// Names returns every registered provider name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CredentialCounts reports how many credentials each registered provider holds.
func (r *Registry) CredentialCounts() map[string]int {
	counts := make(map[string]int, len(r.providers))
	for name, p := range r.providers {
		counts[name] = len(p.Credentials)
	}
	return counts
}
