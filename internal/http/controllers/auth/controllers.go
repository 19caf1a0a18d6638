// Package auth contains the HTTP controllers of the credential endpoints.
// Controllers parse and serialize; every rule lives in the services.
package auth

import (
	"encoding/json"
	"net/http"

	svc "github.com/clinicbook/clinicbook/internal/http/services/auth"
)

const (
	maxBodySize     = 64 * 1024 // 64KB
	contentTypeJSON = "application/json; charset=utf-8"
)

// Controllers groups the auth domain controllers.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Verify   *VerifyController
	Logout   *LogoutController
	Me       *MeController
}

// Services groups the auth services the controllers sit on.
type Services struct {
	Register svc.RegisterService
	Login    svc.LoginService
	Verify   svc.VerifyService
	Logout   svc.LogoutService
}

// NewControllers builds the auth controller set.
func NewControllers(s Services) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s.Register),
		Login:    NewLoginController(s.Login),
		Verify:   NewVerifyController(s.Verify),
		Logout:   NewLogoutController(s.Logout),
		Me:       NewMeController(),
	}
}

// decodeJSON bounds and parses a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON serializes a success payload. Credential responses are never
// cacheable.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
