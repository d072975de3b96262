package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/marioalvarez/rusty-api-maz/internal/models"
	"github.com/marioalvarez/rusty-api-maz/internal/processor"
)

// Handler glues payload decoding, the processor, and envelope formatting.
// Both entrypoints (Lambda and the local server) route through it.
type Handler struct {
	processor *processor.Processor
}

// NewHandler creates a Handler around the given processor
func NewHandler(p *processor.Processor) *Handler {
	return &Handler{processor: p}
}

// Handle processes one request end to end. Malformed JSON bodies are
// rejected with a 400 before the processor is consulted; processor results
// always map to a 200 envelope.
func (h *Handler) Handle(ctx context.Context, req *Request) *Response {
	if req.Method == http.MethodOptions {
		return &Response{
			StatusCode: http.StatusNoContent,
			Headers:    corsHeaders(),
		}
	}

	payload, err := DecodePayload(req.Body)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  req.Path,
			"error": err.Error(),
		}).Warn("Rejected malformed request body")
		return ErrorResponse(http.StatusBadRequest, "Invalid JSON in request body")
	}

	result, err := h.processor.Process(ctx, payload, req.QueryParams, req.PathParams)
	if err != nil {
		// Unreachable with the current pipeline; kept so a future
		// processor error policy surfaces as a 500 instead of a panic.
		logrus.WithField("error", err.Error()).Error("Processing failed")
		return ErrorResponse(http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
	}

	return SuccessResponse(result)
}

// DecodePayload parses an optional JSON request body. An empty body is a
// valid absent payload, distinct from a present payload without a message.
func DecodePayload(body []byte) (*models.RequestPayload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var payload models.RequestPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing request body: %w", err)
	}
	return &payload, nil
}
