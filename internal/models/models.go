package models

// RequestPayload is the optional JSON body of an inbound request.
// A nil *RequestPayload (no body at all) and a payload with a nil Message
// are distinct states and produce different resolved messages.
type RequestPayload struct {
	Message *string                `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// ResponseEnvelope is the serialized response wrapper returned to clients
type ResponseEnvelope struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	Timestamp string                 `json:"timestamp"`
}
