package backend

import "encoding/json"

// Envelope is the backend's response wrapper. Code 0 means success.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// rawEnvelope defers decoding of data until the code has been checked.
type rawEnvelope = Envelope[json.RawMessage]
