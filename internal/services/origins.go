package services

import (
	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/origin"
)

// OriginPolicy decides whether a browser origin may use a project's embed.
// Global origins are accepted for every project on top of its own list.
type OriginPolicy struct {
	Global []string
}

// EffectiveOrigins returns the allow-list applied to p. A project that never
// configured origins (nil) accepts any origin.
func (o OriginPolicy) EffectiveOrigins(p *domain.Project) []string {
	out := append([]string(nil), o.Global...)
	if p == nil {
		return out
	}
	if p.Origins == nil {
		return append(out, origin.Wildcard)
	}
	return append(out, p.Origins...)
}

// Allowed reports whether requestOrigin (an Origin or Referer value) is
// permitted for p. An empty origin is never allowed.
func (o OriginPolicy) Allowed(requestOrigin string, p *domain.Project) bool {
	if requestOrigin == "" {
		return false
	}
	return origin.Allowed(requestOrigin, o.EffectiveOrigins(p))
}
