// Package memory is the in-process Repository used in dev and tests. Writes
// are guarded by a single mutex, so check-and-insert on email is atomic the
// same way the unique index makes it atomic in Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/store/core"
)

type Store struct {
	mu           sync.RWMutex
	users        map[string]*core.User        // by id
	emails       map[string]string            // lower(email) -> id
	appointments map[string]*core.Appointment // by id
	intake       map[string]*core.IntakeForm  // by id
}

func New() *Store {
	return &Store{
		users:        make(map[string]*core.User),
		emails:       make(map[string]string),
		appointments: make(map[string]*core.Appointment),
		intake:       make(map[string]*core.IntakeForm),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() {}

// Users

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.emails[key]; exists {
		return core.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	s.emails[key] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) MarkEmailVerified(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.EmailVerified = true
	return nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role core.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.Role = role
	return nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]core.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]core.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return page(all, limit, offset), len(all), nil
}

// Appointments

func (s *Store) CreateAppointment(ctx context.Context, a *core.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	cp := *a
	s.appointments[a.ID] = &cp
	return nil
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*core.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *a
	s.fillPatient(&cp)
	return &cp, nil
}

func (s *Store) ListAppointmentsByPatient(ctx context.Context, patientID string) ([]core.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Appointment
	for _, a := range s.appointments {
		if a.PatientID == patientID {
			cp := *a
			s.fillPatient(&cp)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListAppointments(ctx context.Context, limit, offset int) ([]core.Appointment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]core.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		cp := *a
		s.fillPatient(&cp)
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return page(all, limit, offset), len(all), nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status core.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return core.ErrNotFound
	}
	a.Status = status
	return nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.appointments, id)
	return nil
}

// Intake forms

func (s *Store) CreateIntakeForm(ctx context.Context, f *core.IntakeForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()
	cp := *f
	s.intake[f.ID] = &cp
	return nil
}

func (s *Store) ListIntakeFormsByPatient(ctx context.Context, patientID string) ([]core.IntakeForm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.IntakeForm
	for _, f := range s.intake {
		if f.PatientID == patientID {
			cp := *f
			s.fillFormPatient(&cp)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListIntakeForms(ctx context.Context, limit, offset int) ([]core.IntakeForm, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]core.IntakeForm, 0, len(s.intake))
	for _, f := range s.intake {
		cp := *f
		s.fillFormPatient(&cp)
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return page(all, limit, offset), len(all), nil
}

// helpers (callers hold the lock)

func (s *Store) fillPatient(a *core.Appointment) {
	if u, ok := s.users[a.PatientID]; ok {
		a.PatientName = u.Name
	}
}

func (s *Store) fillFormPatient(f *core.IntakeForm) {
	if u, ok := s.users[f.PatientID]; ok {
		f.PatientName = u.Name
		f.PatientEmail = u.Email
	}
}

func page[T any](all []T, limit, offset int) []T {
	if limit <= 0 {
		limit = len(all)
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]T, end-offset)
	copy(out, all[offset:end])
	return out
}
