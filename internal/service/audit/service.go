package audit

import (
	"context"
	"fmt"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

// RecentLimit is how many entries the system log view returns.
const RecentLimit = 20

// Service reads the append-only ledger. Writes do not go through here:
// each privileged mutation appends its entry inside its own transaction,
// via the repository that owns the mutation.
type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Recent returns the latest entries, newest first.
func (s *Service) Recent(ctx context.Context) ([]*model.AuditLog, error) {
	entries, err := s.repo.ListRecent(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
