// Package repositorytest provides an in-memory Store implementing every
// repository interface with the same error and atomicity semantics as
// the postgres implementation, for use in service tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	apperrors "github.com/careops/clinic-api/pkg/errors"
)

// Store holds every collection behind one mutex so compound operations
// are atomic the way the real transactions are. The per-interface views
// returned by the accessor methods all share this state.
type Store struct {
	mu sync.Mutex

	Doctors       map[uuid.UUID]*model.Doctor
	Patients      map[uuid.UUID]*model.Patient
	Registrations map[uuid.UUID]*model.DoctorRegistration
	Appointments  map[uuid.UUID]*model.Appointment
	Messages      []*model.Message
	Conversations map[uuid.UUID]*model.Conversation
	AuditEntries  []*model.AuditLog
	OutboxEvents  []*model.OutboxEvent
}

func NewStore() *Store {
	return &Store{
		Doctors:       make(map[uuid.UUID]*model.Doctor),
		Patients:      make(map[uuid.UUID]*model.Patient),
		Registrations: make(map[uuid.UUID]*model.DoctorRegistration),
		Appointments:  make(map[uuid.UUID]*model.Appointment),
		Conversations: make(map[uuid.UUID]*model.Conversation),
	}
}

func (s *Store) DoctorRepo() repository.DoctorRepository             { return &doctorRepo{s} }
func (s *Store) PatientRepo() repository.PatientRepository           { return &patientRepo{s} }
func (s *Store) RegistrationRepo() repository.RegistrationRepository { return &registrationRepo{s} }
func (s *Store) AppointmentRepo() repository.AppointmentRepository   { return &appointmentRepo{s} }
func (s *Store) MessageRepo() repository.MessageRepository           { return &messageRepo{s} }
func (s *Store) AuditRepo() repository.AuditRepository               { return &auditRepo{s} }
func (s *Store) OutboxRepo() repository.OutboxRepository             { return &outboxRepo{s} }

// SeedDoctor inserts a doctor and returns it.
func (s *Store) SeedDoctor(userID, name string, role model.Role) *model.Doctor {
	doctor := &model.Doctor{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
		Name:   name,
		Role:   role,
		Status: model.DoctorStatusActive,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Doctors[doctor.ID] = doctor
	return doctor
}

// SeedPatient inserts a patient and returns it.
func (s *Store) SeedPatient(userID, name string) *model.Patient {
	patient := &model.Patient{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
		Name:   name,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Patients[patient.ID] = patient
	return patient
}

// SeedRegistration inserts a registration in the given status.
func (s *Store) SeedRegistration(userID, name, email string, status model.RegistrationStatus) *model.DoctorRegistration {
	reg := &model.DoctorRegistration{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
		Name:   name,
		Email:  email,
		Status: status,
		Details: model.RegistrationDetails{
			PrimarySpecialty: "cardiology",
			LicenseNumber:    "LIC-1",
			YearsExperience:  5,
		},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Registrations[reg.ID] = reg
	return reg
}

// AuditActions returns the recorded audit actions in append order.
func (s *Store) AuditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, 0, len(s.AuditEntries))
	for _, entry := range s.AuditEntries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type doctorRepo struct{ s *Store }

func (r *doctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt
	r.s.Doctors[doctor.ID] = doctor
	return nil
}

func (r *doctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doctor, ok := r.s.Doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	copied := *doctor
	return &copied, nil
}

func (r *doctorRepo) GetByUserID(ctx context.Context, userID string) (*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, doctor := range r.s.Doctors {
		if doctor.UserID == userID {
			copied := *doctor
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *doctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doctors := make([]*model.Doctor, 0, len(r.s.Doctors))
	for _, doctor := range r.s.Doctors {
		copied := *doctor
		doctors = append(doctors, &copied)
	}
	return doctors, nil
}

func (r *doctorRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DoctorStatus, revision int64, entry *model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doctor, ok := r.s.Doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	if doctor.Revision != revision {
		return apperrors.Conflict("doctor was modified concurrently", nil)
	}
	doctor.Status = status
	doctor.Revision++
	doctor.UpdatedAt = time.Now()
	r.s.AuditEntries = append(r.s.AuditEntries, entry)
	return nil
}

func (r *doctorRepo) CountByStatus(ctx context.Context, status model.DoctorStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, doctor := range r.s.Doctors {
		if doctor.Status == status {
			count++
		}
	}
	return count, nil
}

type patientRepo struct{ s *Store }

func (r *patientRepo) Create(ctx context.Context, patient *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	r.s.Patients[patient.ID] = patient
	return nil
}

func (r *patientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	patient, ok := r.s.Patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	copied := *patient
	return &copied, nil
}

func (r *patientRepo) GetByUserID(ctx context.Context, userID string) (*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, patient := range r.s.Patients {
		if patient.UserID == userID {
			copied := *patient
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *patientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	patients := make([]*model.Patient, 0, len(r.s.Patients))
	for _, patient := range r.s.Patients {
		copied := *patient
		patients = append(patients, &copied)
	}
	return patients, nil
}

func (r *patientRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.Patients)), nil
}

func (r *patientRepo) DeleteCascade(ctx context.Context, id uuid.UUID, entry *model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Patients[id]; !ok {
		return apperrors.NotFound("patient", nil)
	}
	for apptID, appt := range r.s.Appointments {
		if appt.PatientID == id {
			delete(r.s.Appointments, apptID)
		}
	}
	delete(r.s.Patients, id)
	r.s.AuditEntries = append(r.s.AuditEntries, entry)
	return nil
}

type registrationRepo struct{ s *Store }

func (r *registrationRepo) Create(ctx context.Context, reg *model.DoctorRegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg.CreatedAt = time.Now()
	reg.UpdatedAt = reg.CreatedAt
	r.s.Registrations[reg.ID] = reg
	return nil
}

func (r *registrationRepo) Get(ctx context.Context, id uuid.UUID) (*model.DoctorRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.Registrations[id]
	if !ok {
		return nil, apperrors.NotFound("registration", nil)
	}
	copied := *reg
	return &copied, nil
}

func (r *registrationRepo) ListPending(ctx context.Context) ([]*model.DoctorRegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var pending []*model.DoctorRegistration
	for _, reg := range r.s.Registrations {
		if reg.Status == model.RegistrationStatusPending {
			copied := *reg
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (r *registrationRepo) CountPending(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, reg := range r.s.Registrations {
		if reg.Status == model.RegistrationStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *registrationRepo) Approve(ctx context.Context, reg *model.DoctorRegistration, doctor *model.Doctor, entry *model.AuditLog, event *model.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.Registrations[reg.ID]
	if !ok || stored.Status != model.RegistrationStatusPending || stored.Revision != reg.Revision {
		return apperrors.InvalidTransition("registration is not pending", nil)
	}
	stored.Status = model.RegistrationStatusApproved
	stored.Revision++
	r.s.Doctors[doctor.ID] = doctor
	r.s.AuditEntries = append(r.s.AuditEntries, entry)
	if event != nil {
		r.s.OutboxEvents = append(r.s.OutboxEvents, event)
	}
	return nil
}

func (r *registrationRepo) Reject(ctx context.Context, reg *model.DoctorRegistration, entry *model.AuditLog, event *model.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.Registrations[reg.ID]
	if !ok || stored.Status != model.RegistrationStatusPending || stored.Revision != reg.Revision {
		return apperrors.InvalidTransition("registration is not pending", nil)
	}
	stored.Status = model.RegistrationStatusRejected
	stored.Revision++
	r.s.AuditEntries = append(r.s.AuditEntries, entry)
	if event != nil {
		r.s.OutboxEvents = append(r.s.OutboxEvents, event)
	}
	return nil
}

type appointmentRepo struct{ s *Store }

func (r *appointmentRepo) Create(ctx context.Context, appointment *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	copied := *appointment
	r.s.Appointments[appointment.ID] = &copied
	return nil
}

func (r *appointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appointment, ok := r.s.Appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *appointment
	return &copied, nil
}

func (r *appointmentRepo) List(ctx context.Context) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appointments := make([]*model.Appointment, 0, len(r.s.Appointments))
	for _, appointment := range r.s.Appointments {
		copied := *appointment
		appointments = append(appointments, &copied)
	}
	return appointments, nil
}

func (r *appointmentRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appointments := []*model.Appointment{}
	for _, appointment := range r.s.Appointments {
		if appointment.PatientID == patientID {
			copied := *appointment
			appointments = append(appointments, &copied)
		}
	}
	return appointments, nil
}

func (r *appointmentRepo) CountOnDay(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, appointment := range r.s.Appointments {
		if !appointment.Date.Before(start) && appointment.Date.Before(end) {
			count++
		}
	}
	return count, nil
}

func (r *appointmentRepo) Update(ctx context.Context, appointment *model.Appointment, entry *model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.Appointments[appointment.ID]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	if stored.Revision != appointment.Revision {
		return apperrors.Conflict("appointment was modified concurrently", nil)
	}
	stored.Date = appointment.Date
	stored.Status = appointment.Status
	stored.Reason = appointment.Reason
	stored.Revision++
	stored.UpdatedAt = time.Now()
	r.s.AuditEntries = append(r.s.AuditEntries, entry)
	return nil
}

type messageRepo struct{ s *Store }

func (r *messageRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	messages := []*model.Message{}
	for _, msg := range r.s.Messages {
		if msg.PatientID == patientID {
			copied := *msg
			messages = append(messages, &copied)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (r *messageRepo) Insert(ctx context.Context, msg *model.Message, event *model.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *msg
	r.s.Messages = append(r.s.Messages, &copied)

	var delta int64
	if msg.Role == model.RolePatient {
		delta = 1
	}
	conv, ok := r.s.Conversations[msg.PatientID]
	if !ok {
		name := ""
		for _, patient := range r.s.Patients {
			if patient.ID == msg.PatientID {
				name = patient.Name
			}
		}
		conv = &model.Conversation{PatientID: msg.PatientID, PatientName: name}
		r.s.Conversations[msg.PatientID] = conv
	}
	conv.LastMessageAt = msg.CreatedAt
	conv.LastMessage = &copied
	conv.UnreadCount += delta

	if event != nil {
		r.s.OutboxEvents = append(r.s.OutboxEvents, event)
	}
	return nil
}

func (r *messageRepo) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	conversations := make([]*model.Conversation, 0, len(r.s.Conversations))
	for _, conv := range r.s.Conversations {
		copied := *conv
		conversations = append(conversations, &copied)
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return conversations, nil
}

func (r *messageRepo) MarkConversationRead(ctx context.Context, patientID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var affected int64
	for _, msg := range r.s.Messages {
		if msg.PatientID == patientID && msg.Role == model.RolePatient && !msg.IsRead {
			msg.IsRead = true
			affected++
		}
	}
	if conv, ok := r.s.Conversations[patientID]; ok {
		conv.UnreadCount = 0
	}
	return affected, nil
}

type auditRepo struct{ s *Store }

func (r *auditRepo) Append(ctx context.Context, entry *model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.AuditEntries = append(r.s.AuditEntries, entry)
	return nil
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]*model.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries := make([]*model.AuditLog, len(r.s.AuditEntries))
	copy(entries, r.s.AuditEntries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

type outboxRepo struct{ s *Store }

func (r *outboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var pending []*model.OutboxEvent
	for _, event := range r.s.OutboxEvents {
		if event.Status == model.OutboxStatusPending {
			pending = append(pending, event)
			if len(pending) == limit {
				break
			}
		}
	}
	return pending, nil
}

func (r *outboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, event := range r.s.OutboxEvents {
		if event.ID == id {
			event.Status = status
			event.ErrorMessage = errMsg
			event.RetryCount++
			now := time.Now()
			event.ProcessedAt = &now
			return nil
		}
	}
	return apperrors.NotFound("outbox event", nil)
}
