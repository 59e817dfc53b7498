package handlers

import (
	"context"

	"github.com/tbourn/go-errpage-embed/internal/domain"
	"github.com/tbourn/go-errpage-embed/internal/services"
)

//
// Service contracts (context-aware)
//

// KeyResolver resolves the dsn query parameter to an active project key.
// It returns services.ErrKeyNotFound for unknown or malformed DSNs.
type KeyResolver interface {
	Resolve(ctx context.Context, dsn string) (*domain.ProjectKey, error)
}

// OriginPolicy decides whether a browser origin may use a project's embed.
type OriginPolicy interface {
	Allowed(origin string, p *domain.Project) bool
}

// ReportService validates and stores a submitted report. Invalid forms are
// reported as *services.ValidationError.
type ReportService interface {
	Submit(ctx context.Context, key *domain.ProjectKey, eventID string, form services.ReportForm) (*domain.UserReport, error)
}

//
// Handler wiring
//

// Handlers groups the embed endpoint and its collaborators.
type Handlers struct {
	keys    KeyResolver
	origins OriginPolicy
	reports ReportService
}

// New constructs a Handlers bound to the given services.
func New(keys KeyResolver, origins OriginPolicy, reports ReportService) *Handlers {
	return &Handlers{keys: keys, origins: origins, reports: reports}
}
