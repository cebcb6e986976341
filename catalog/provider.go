package catalog

import "sync/atomic"

// Provider hands the catalog to detection and dispatch once it exists
// Constructed explicitly and injected; until Publish it reports not ready
type Provider struct {
	current atomic.Pointer[Catalog]
}

// NewProvider returns a provider, optionally already holding a catalog
func NewProvider(c ...*Catalog) *Provider {
	p := &Provider{}
	if len(c) > 0 && c[0] != nil {
		p.current.Store(c[0])
	}
	return p
}

// Publish makes c visible to readers; nil returns the provider to not ready
func (p *Provider) Publish(c *Catalog) {
	p.current.Store(c)
}

// Catalog returns the current catalog and whether one is published
func (p *Provider) Catalog() (*Catalog, bool) {
	c := p.current.Load()
	return c, c != nil
}

// Ready reports whether a catalog is published
func (p *Provider) Ready() bool {
	return p.current.Load() != nil
}
