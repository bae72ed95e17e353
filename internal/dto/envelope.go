package dto

import "encoding/json"

// Envelope is the common response contract of the Eventzy API:
// {success: bool, data, message?}. A falsy success is a failure with
// message as the user-facing reason.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}
