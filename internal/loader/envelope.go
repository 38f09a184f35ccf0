package loader

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errEmptyBody = errors.New("empty response body")

// Decode decodes body into T, accepting either the bare payload or an envelope of
// the form {"success": bool, "data": payload, "message": string}.
// An envelope with success=false is returned as *EnvelopeError. An envelope with a
// null or missing data field decodes to the zero value of T.
func Decode[T any](body []byte) (T, error) {
	var zero T

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return zero, &DecodeError{Cause: errEmptyBody}
	}

	if trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return zero, &DecodeError{Cause: err}
		}
		if err := envelopeFailure(fields); err != nil {
			return zero, err
		}
		if data, ok := fields["data"]; ok {
			if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
				return zero, nil
			}
			return decodeInto[T](data)
		}
		if _, ok := fields["success"]; ok {
			return zero, nil
		}
	}

	return decodeInto[T](trimmed)
}

// envelopeFailure returns an *EnvelopeError when fields carry "success": false.
func envelopeFailure(fields map[string]json.RawMessage) error {
	raw, ok := fields["success"]
	if !ok {
		return nil
	}
	var success bool
	if err := json.Unmarshal(raw, &success); err != nil || success {
		return nil
	}
	var msg string
	if m, ok := fields["message"]; ok {
		_ = json.Unmarshal(m, &msg)
	}
	return &EnvelopeError{Message: msg}
}

func decodeInto[T any](payload []byte) (T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		var zero T
		return zero, &DecodeError{Cause: err}
	}
	return out, nil
}
