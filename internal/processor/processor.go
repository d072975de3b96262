package processor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/marioalvarez/rusty-api-maz/internal/config"
	"github.com/marioalvarez/rusty-api-maz/internal/models"
	"github.com/marioalvarez/rusty-api-maz/internal/ports"
)

// Messages produced by the pipeline
const (
	MsgNoPayload    = "No payload provided"
	MsgNoMessage    = "No message provided"
	MsgHealthy      = "Service is healthy"
	MsgItemNotFound = "Item not found"
)

// Processor drives the request pipeline: message resolution, the health
// short-circuit, the two demonstration lookups, and composition of the
// response text. Backend failures are folded into the response text, never
// returned as errors; a single unavailable backend must not prevent the
// other half of the response from being produced.
type Processor struct {
	database ports.Database
	storage  ports.ObjectStore
	demo     config.DemoConfig
}

// New creates a Processor owning the given port implementations. The ports
// are fixed for the processor's lifetime.
func New(database ports.Database, storage ports.ObjectStore, demo config.DemoConfig) *Processor {
	return &Processor{
		database: database,
		storage:  storage,
		demo:     demo,
	}
}

// Process handles a single request. The query and path maps belong to the
// transport and are never mutated. The returned error is reserved for
// conditions outside backend I/O; in the current design it is always nil.
func (p *Processor) Process(ctx context.Context, payload *models.RequestPayload, queryParams, pathParams map[string]string) (string, error) {
	message := resolveMessage(payload)

	if queryParams["health"] == "true" {
		logrus.WithField("route", "health").Debug("Health check short-circuit")
		return MsgHealthy, nil
	}

	dbBlock := p.lookupItem(ctx, pathParams)
	objBlock := p.lookupObject(ctx, pathParams)

	return message + "\n\n" + dbBlock + "\n\n" + objBlock, nil
}

// resolveMessage distinguishes a missing payload from a payload without a
// message.
func resolveMessage(payload *models.RequestPayload) string {
	if payload == nil {
		return MsgNoPayload
	}
	if payload.Message == nil {
		return MsgNoMessage
	}
	return *payload.Message
}

// lookupItem performs the demonstration key-value lookup and renders the
// outcome as text
func (p *Processor) lookupItem(ctx context.Context, pathParams map[string]string) string {
	table := p.demo.TableName
	if v := pathParams["table"]; v != "" {
		table = v
	}
	itemID := p.demo.ItemID
	if v := pathParams["id"]; v != "" {
		itemID = v
	}

	key := ports.Key{p.demo.ItemKeyAttr: itemID}

	record, err := p.database.GetItem(ctx, table, key)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"table": table,
			"error": err.Error(),
		}).Warn("Database lookup failed")
		return "Error: " + err.Error()
	}
	if record == nil {
		logrus.WithField("table", table).Debug("Database item not found")
		return MsgItemNotFound
	}

	return "Item found:\n" + formatRecord(record)
}

// lookupObject performs the demonstration blob lookup and renders the
// outcome as text
func (p *Processor) lookupObject(ctx context.Context, pathParams map[string]string) string {
	bucket := p.demo.BucketName
	if v := pathParams["bucket"]; v != "" {
		bucket = v
	}
	objectKey := p.demo.ObjectKey
	if v := pathParams["object"]; v != "" {
		objectKey = v
	}

	data, err := p.storage.GetObject(ctx, bucket, objectKey)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"bucket": bucket,
			"key":    objectKey,
			"error":  err.Error(),
		}).Warn("Object lookup failed")
		return "Error: " + err.Error()
	}

	return fmt.Sprintf("Object found (%d bytes):\n%s", len(data), decodeBestEffort(data))
}

// formatRecord renders a record as an indented key/value listing with
// stable attribute ordering
func formatRecord(record ports.Record) string {
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(record[name])
	}
	return b.String()
}

// decodeBestEffort renders bytes as text, substituting the replacement
// character for invalid UTF-8 instead of failing
func decodeBestEffort(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
