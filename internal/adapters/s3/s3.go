// Package s3 adapts Amazon S3 to the ObjectStore port.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/marioalvarez/rusty-api-maz/internal/ports"
)

// Options tunes the underlying client, mainly for localstack runs
type Options struct {
	// EndpointURL overrides the S3 endpoint when non-empty
	EndpointURL string
	// UsePathStyle forces path-style addressing, required by most
	// S3-compatible local endpoints
	UsePathStyle bool
}

// Adapter implements ports.ObjectStore on top of an S3 client
type Adapter struct {
	client *s3.Client
}

// New creates an Adapter around an existing client
func New(client *s3.Client) *Adapter {
	return &Adapter{client: client}
}

// NewFromConfig creates an Adapter with a client built from cfg and opts
func NewFromConfig(cfg aws.Config, opts Options) *Adapter {
	return New(s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		o.UsePathStyle = opts.UsePathStyle
	}))
}

// GetObject implements ports.ObjectStore.GetObject. A missing object is an
// error of kind NotFound, preserving the port's asymmetry with the
// database side.
func (a *Adapter) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	qualified := bucket + "::" + key

	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ports.NewStorageError("GetObject", qualified, ports.ErrObjectNotFound, false)
		}
		return nil, ports.NewStorageError("GetObject", qualified, fmt.Errorf("s3 get object: %w", err), true)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ports.NewStorageError("GetObject", qualified, fmt.Errorf("reading object body: %w", err), true)
	}
	return data, nil
}

// PutObject implements ports.ObjectStore.PutObject
func (a *Adapter) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return ports.NewStorageError("PutObject", bucket+"::"+key, fmt.Errorf("s3 put object: %w", err), true)
	}
	return nil
}

// isNotFound reports whether an S3 API error means the object is missing
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
