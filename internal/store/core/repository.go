package core

import "context"

// Repository is the persistence boundary for the service. Implementations:
// pg (pgx pool, production) and memory (dev/tests). All methods honor the
// context for cancellation.
type Repository interface {
	Ping(ctx context.Context) error
	Close()

	// Users. CreateUser assigns CreatedAt and fails with ErrEmailTaken on a
	// duplicate email; the check-and-insert is atomic at the storage layer.
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	MarkEmailVerified(ctx context.Context, id string) error
	UpdateUserRole(ctx context.Context, id string, role Role) error
	ListUsers(ctx context.Context, limit, offset int) ([]User, int, error)

	// Appointments.
	CreateAppointment(ctx context.Context, a *Appointment) error
	GetAppointment(ctx context.Context, id string) (*Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListAppointments(ctx context.Context, limit, offset int) ([]Appointment, int, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) error
	DeleteAppointment(ctx context.Context, id string) error

	// Intake forms.
	CreateIntakeForm(ctx context.Context, f *IntakeForm) error
	ListIntakeFormsByPatient(ctx context.Context, patientID string) ([]IntakeForm, error)
	ListIntakeForms(ctx context.Context, limit, offset int) ([]IntakeForm, int, error)
}
