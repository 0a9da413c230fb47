// File: internal/auth/model.go
package auth

import "medical_assistant_backend/internal/domain"

// Kind is the session state tag.
type Kind string

const (
	KindInitial Kind = "initial"
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Reason tells apart the ways a login attempt can fail.
type Reason string

const (
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonProfileWriteFailed Reason = "profile_write_failed"
	ReasonTooManyAttempts    Reason = "too_many_attempts"
)

// Messages shown for each failure reason.
const (
	MessageInvalidCredentials = "Usuario o contraseña incorrectos"
	MessageProfileWriteFailed = "No se pudo guardar el perfil del usuario"
	MessageTooManyAttempts    = "Demasiados intentos fallidos, inténtelo más tarde"
)

// State is one step of the login session. Profile is set only for KindSuccess;
// Message and Reason only for KindError.
type State struct {
	Kind    Kind
	Profile domain.UserData
	Message string
	Reason  Reason
}

func Initial() State { return State{Kind: KindInitial} }
func Loading() State { return State{Kind: KindLoading} }

func Success(profile domain.UserData) State {
	return State{Kind: KindSuccess, Profile: profile}
}

func Failure(reason Reason, message string) State {
	return State{Kind: KindError, Reason: reason, Message: message}
}

// --- DTOs ---

// LoginRequest defines the structure for login requests.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// StateResponse is a session state as sent over HTTP and websocket.
type StateResponse struct {
	State   Kind             `json:"state"`
	Profile *domain.UserData `json:"profile,omitempty"`
	Message string           `json:"message,omitempty"`
	Reason  Reason           `json:"reason,omitempty"`
}

// ToStateResponse converts a State to its response shape.
func ToStateResponse(s State) StateResponse {
	resp := StateResponse{State: s.Kind, Message: s.Message, Reason: s.Reason}
	if s.Kind == KindSuccess {
		p := s.Profile
		resp.Profile = &p
	}
	return resp
}
