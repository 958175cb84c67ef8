package identity

import (
	"context"
	"fmt"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

// Service resolves opaque subject ids from the identity provider to domain
// roles. It is a pure lookup: it never fails an identity, it only reports
// which records the subject matches. Callers decide what the result
// permits.
type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func NewService(doctors repository.DoctorRepository, patients repository.PatientRepository) *Service {
	return &Service{
		doctors:  doctors,
		patients: patients,
	}
}

// Resolve looks the subject up against doctor and patient records. The
// doctor record decides the role whenever it exists, even when a patient
// record matches the same subject; both records are returned so messaging
// can disambiguate.
func (s *Service) Resolve(ctx context.Context, subject string) (*model.Identity, error) {
	ident := &model.Identity{Subject: subject, Role: model.RoleNone}
	if subject == "" {
		return ident, nil
	}

	doctor, err := s.doctors.GetByUserID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doctor record: %w", err)
	}
	patient, err := s.patients.GetByUserID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient record: %w", err)
	}

	ident.Doctor = doctor
	ident.Patient = patient

	switch {
	case doctor != nil:
		ident.Role = doctor.Role
	case patient != nil:
		ident.Role = model.RolePatient
	}
	return ident, nil
}
