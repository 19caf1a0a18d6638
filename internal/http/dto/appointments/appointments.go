// Package appointments holds the wire shapes of the booking endpoints.
package appointments

// BookRequest is the body of POST /v1/appointments.
type BookRequest struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
	DoctorName string `json:"doctorName,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// UpdateStatusRequest is the body of PUT /v1/appointments/{id}.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Appointment is the public projection of a booking.
type Appointment struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName,omitempty"`
	DoctorName  string `json:"doctorName,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Reason      string `json:"reason,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

// BookResponse acknowledges a created booking.
type BookResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Appointment Appointment `json:"appointment"`
}

// ListResponse is a page of bookings.
type ListResponse struct {
	Success      bool          `json:"success"`
	Count        int           `json:"count"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	Appointments []Appointment `json:"appointments"`
}
