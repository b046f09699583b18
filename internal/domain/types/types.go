// Package types contains the wire types shared by the HTTP and CLI layers.
package types

// Envelope is the uniform response wrapper. Exactly one of Data and
// Message is set; Data is omitted only when nil, so an empty slice is
// still rendered as [].
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Success wraps data in a successful envelope.
func Success(email string, data any) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email, Data: data}
}

// Status is the data-less success envelope used by the health check.
func Status(email string) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email}
}

// Failure wraps a client-facing message in a failed envelope.
func Failure(email, message string) Envelope {
	return Envelope{IsSuccess: false, OfficialEmail: email, Message: message}
}
