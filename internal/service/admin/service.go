package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/internal/service/access"
	"github.com/careops/clinic-api/internal/service/audit"
	"github.com/careops/clinic-api/pkg/validator"
)

const (
	statsCacheKey = "system_stats"
	statsCacheTTL = 30 * time.Second
)

// Service is the admin-gated back-office surface: dashboard stats, full
// collection reads, doctor status changes and patient removal.
type Service struct {
	guard         *access.Guard
	doctors       repository.DoctorRepository
	patients      repository.PatientRepository
	appointments  repository.AppointmentRepository
	registrations repository.RegistrationRepository
	auditSvc      *audit.Service
	validate      *validator.Validator
	cache         *gocache.Cache
}

func NewService(
	guard *access.Guard,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	appointments repository.AppointmentRepository,
	registrations repository.RegistrationRepository,
	auditSvc *audit.Service,
	validate *validator.Validator,
) *Service {
	return &Service{
		guard:         guard,
		doctors:       doctors,
		patients:      patients,
		appointments:  appointments,
		registrations: registrations,
		auditSvc:      auditSvc,
		validate:      validate,
		cache:         gocache.New(statsCacheTTL, 2*statsCacheTTL),
	}
}

// GetStats returns the dashboard counters. The result is cached briefly;
// mutations that change the counters invalidate the cache.
func (s *Service) GetStats(ctx context.Context, subject string) (*model.SystemStats, error) {
	if _, err := s.guard.RequireAdmin(ctx, subject); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(*model.SystemStats), nil
	}

	totalPatients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeDoctors, err := s.doctors.CountByStatus(ctx, model.DoctorStatusActive)
	if err != nil {
		return nil, err
	}
	appointmentsToday, err := s.appointments.CountOnDay(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	pendingRegistrations, err := s.registrations.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.SystemStats{
		TotalPatients:        totalPatients,
		ActiveDoctors:        activeDoctors,
		AppointmentsToday:    appointmentsToday,
		PendingRegistrations: pendingRegistrations,
	}
	s.cache.Set(statsCacheKey, stats, statsCacheTTL)
	return stats, nil
}

func (s *Service) GetAllDoctors(ctx context.Context, subject string) ([]*model.Doctor, error) {
	if _, err := s.guard.RequireAdmin(ctx, subject); err != nil {
		return nil, err
	}
	return s.doctors.List(ctx)
}

func (s *Service) GetAllPatients(ctx context.Context, subject string) ([]*model.Patient, error) {
	if _, err := s.guard.RequireAdmin(ctx, subject); err != nil {
		return nil, err
	}
	return s.patients.List(ctx)
}

func (s *Service) GetAllAppointments(ctx context.Context, subject string) ([]*model.Appointment, error) {
	if _, err := s.guard.RequireAdmin(ctx, subject); err != nil {
		return nil, err
	}
	return s.appointments.List(ctx)
}

func (s *Service) GetPendingRegistrations(ctx context.Context, subject string) ([]*model.DoctorRegistration, error) {
	if _, err := s.guard.RequireAdmin(ctx, subject); err != nil {
		return nil, err
	}
	return s.registrations.ListPending(ctx)
}

// GetSystemLogs returns the most recent audit entries, newest first.
func (s *Service) GetSystemLogs(ctx context.Context, subject string) ([]*model.AuditLog, error) {
	if _, err := s.guard.RequireAdmin(ctx, subject); err != nil {
		return nil, err
	}
	return s.auditSvc.Recent(ctx)
}

// UpdateDoctorStatus patches a doctor's active/inactive flag and logs the
// change in the same transaction.
func (s *Service) UpdateDoctorStatus(ctx context.Context, subject string, doctorID uuid.UUID, req *model.UpdateDoctorStatusRequest) error {
	admin, err := s.guard.RequireAdmin(ctx, subject)
	if err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return err
	}
	revision := doctor.Revision
	if req.Revision != nil {
		revision = *req.Revision
	}

	entry := model.NewAuditLog(admin.UserID, model.AuditActionUpdateDoctorStatus, &doctorID, model.JSONMap{
		"status": req.Status,
	})
	if err := s.doctors.UpdateStatus(ctx, doctorID, req.Status, revision, entry); err != nil {
		return err
	}

	s.cache.Delete(statsCacheKey)
	return nil
}

// DeletePatient removes the patient and every appointment referencing it
// as one atomic effect. Messages and audit history stay.
func (s *Service) DeletePatient(ctx context.Context, subject string, patientID uuid.UUID) error {
	admin, err := s.guard.RequireAdmin(ctx, subject)
	if err != nil {
		return err
	}

	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return err
	}

	entry := model.NewAuditLog(admin.UserID, model.AuditActionDeletePatient, &patientID, model.JSONMap{
		"name": patient.Name,
	})
	if err := s.patients.DeleteCascade(ctx, patientID, entry); err != nil {
		return err
	}

	s.cache.Delete(statsCacheKey)
	return nil
}
