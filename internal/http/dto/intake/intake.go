// Package intake holds the wire shapes of the intake-form endpoints.
package intake

// SubmitRequest is the body of POST /v1/intake. All three fields are
// required.
type SubmitRequest struct {
	MedicalHistory string `json:"medicalHistory"`
	Insurance      string `json:"insurance"`
	Symptoms       string `json:"symptoms"`
}

// Form is the public projection of an intake submission. Patient name and
// email are filled on admin reads only.
type Form struct {
	ID             string `json:"id"`
	PatientID      string `json:"patientId"`
	PatientName    string `json:"patientName,omitempty"`
	PatientEmail   string `json:"patientEmail,omitempty"`
	MedicalHistory string `json:"medicalHistory"`
	Insurance      string `json:"insurance"`
	Symptoms       string `json:"symptoms"`
	CreatedAt      string `json:"createdAt"`
}

// SubmitResponse acknowledges a stored form.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Form    Form   `json:"form"`
}

// ListResponse is a set of forms.
type ListResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Total   int    `json:"total,omitempty"`
	Forms   []Form `json:"forms"`
}
