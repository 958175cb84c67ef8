package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

// Append writes a standalone entry. Privileged mutations do not use this
// path; their entries ride the mutating transaction via the owning
// repository.
func (r *auditRepository) Append(ctx context.Context, entry *model.AuditLog) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return appendAuditTx(ctx, tx, entry)
	})
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	var entries []*model.AuditLog
	if err := r.GetDB().SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, nil
}
