package response

import "employee-directory/internal/domain"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

func OK(data any) Envelope { return Envelope{Success: true, Data: data} }

func OKMsg(msg string, data any) Envelope { return Envelope{Success: true, Message: msg, Data: data} }

// Error builds a failure envelope; an empty msg falls back to the status text.
func Error(status int, msg string) Envelope {
	if msg == "" {
		msg = MessageFor(status)
	}
	return Envelope{Success: false, Message: msg}
}

func Invalid(msg string, fields []domain.FieldError) Envelope {
	return Envelope{Success: false, Message: msg, Errors: fields}
}
