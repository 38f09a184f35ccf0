package types

// Envelope is the optional JSON wrapper around API payloads.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail builds an unsuccessful envelope carrying a human-readable message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
