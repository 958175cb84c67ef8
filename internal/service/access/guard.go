package access

import (
	"context"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/service/identity"
	apperrors "github.com/careops/clinic-api/pkg/errors"
)

// Guard gates privileged operations on the caller's resolved role. Every
// gated operation calls the guard before touching the datastore; a guard
// failure means nothing was read or written and no audit entry exists.
type Guard struct {
	resolver *identity.Service
}

func NewGuard(resolver *identity.Service) *Guard {
	return &Guard{resolver: resolver}
}

// RequireStaff resolves the subject and returns its doctor record when the
// doctor's role is one of the allowed roles. An empty subject fails as
// unauthenticated; anything else that does not match fails as forbidden.
func (g *Guard) RequireStaff(ctx context.Context, subject string, roles ...model.Role) (*model.Doctor, error) {
	if subject == "" {
		return nil, apperrors.Unauthenticated(nil)
	}

	ident, err := g.resolver.Resolve(ctx, subject)
	if err != nil {
		return nil, err
	}
	if ident.Doctor == nil || !ident.Doctor.Role.In(roles...) {
		return nil, apperrors.Forbidden("", nil)
	}
	return ident.Doctor, nil
}

// RequireAdmin gates the back-office operation surface.
func (g *Guard) RequireAdmin(ctx context.Context, subject string) (*model.Doctor, error) {
	return g.RequireStaff(ctx, subject, model.AdminRoles...)
}
