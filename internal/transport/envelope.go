package transport

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marioalvarez/rusty-api-maz/internal/models"
)

// fallbackBody is returned when the envelope itself cannot be serialized
const fallbackBody = `{"status":"error","message":"Failed to serialize response","data":null,"timestamp":"1970-01-01T00:00:00Z"}`

// corsHeaders returns the header set attached to every response
func corsHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
}

// SuccessResponse wraps a processor result in a 200 envelope
func SuccessResponse(message string) *Response {
	return envelopeResponse(200, models.ResponseEnvelope{
		Status:    "success",
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ErrorResponse wraps an error message in an envelope with the given status
func ErrorResponse(statusCode int, message string) *Response {
	return envelopeResponse(statusCode, models.ResponseEnvelope{
		Status:    "error",
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func envelopeResponse(statusCode int, env models.ResponseEnvelope) *Response {
	body, err := json.Marshal(env)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Failed to serialize response envelope")
		return &Response{
			StatusCode: 500,
			Headers:    corsHeaders(),
			Body:       []byte(fallbackBody),
		}
	}

	return &Response{
		StatusCode: statusCode,
		Headers:    corsHeaders(),
		Body:       body,
	}
}
