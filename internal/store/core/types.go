package core

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether r is one of the persisted roles.
func ValidRole(r Role) bool {
	return r == RolePatient || r == RoleAdmin
}

// User is a credential record. Email is stored lowercase and is unique.
// PasswordHash is the argon2id PHC string, never the plaintext, and is never
// serialized into any response payload.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          Role
	EmailVerified bool
	CreatedAt     time.Time
}

// AppointmentStatus is the closed set of appointment states.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ValidAppointmentStatus reports whether s is a persisted status.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled:
		return true
	}
	return false
}

// Appointment is a booking made by a patient. PatientName is resolved by the
// store on cross-patient reads; it is empty on writes.
type Appointment struct {
	ID          string
	PatientID   string
	PatientName string
	DoctorName  string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Reason      string
	Status      AppointmentStatus
	CreatedAt   time.Time
}

// IntakeForm is a medical intake submission. PatientName and PatientEmail are
// resolved by the store on admin reads.
type IntakeForm struct {
	ID             string
	PatientID      string
	PatientName    string
	PatientEmail   string
	MedicalHistory string
	Insurance      string
	Symptoms       string
	CreatedAt      time.Time
}
