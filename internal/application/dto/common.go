package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LastErrorResponse último error registrado para el usuario. Present=false si el slot está vacío.
type LastErrorResponse struct {
	Present bool   `json:"present"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
