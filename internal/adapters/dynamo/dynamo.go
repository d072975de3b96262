// Package dynamo adapts Amazon DynamoDB to the Database port.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/marioalvarez/rusty-api-maz/internal/ports"
)

// Adapter implements ports.Database on top of a DynamoDB client
type Adapter struct {
	client *dynamodb.Client
}

// New creates an Adapter around an existing client
func New(client *dynamodb.Client) *Adapter {
	return &Adapter{client: client}
}

// NewFromConfig creates an Adapter with a client built from cfg
func NewFromConfig(cfg aws.Config) *Adapter {
	return New(dynamodb.NewFromConfig(cfg))
}

// GetItem implements ports.Database.GetItem. A missing item is (nil, nil);
// only transport and service failures become errors.
func (a *Adapter) GetItem(ctx context.Context, table string, key ports.Key) (ports.Record, error) {
	resp, err := a.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       toAttributeValues(key),
	})
	if err != nil {
		return nil, ports.NewStorageError("GetItem", table, fmt.Errorf("dynamodb get item: %w", err), true)
	}

	if len(resp.Item) == 0 {
		return nil, nil
	}
	return fromAttributeValues(resp.Item), nil
}

// PutItem implements ports.Database.PutItem
func (a *Adapter) PutItem(ctx context.Context, table string, item ports.Record) error {
	_, err := a.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      toAttributeValues(item),
	})
	if err != nil {
		return ports.NewStorageError("PutItem", table, fmt.Errorf("dynamodb put item: %w", err), true)
	}
	return nil
}

// toAttributeValues maps a string record onto DynamoDB string attributes
func toAttributeValues(m map[string]string) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(m))
	for k, v := range m {
		out[k] = &types.AttributeValueMemberS{Value: v}
	}
	return out
}

// fromAttributeValues extracts the string attributes of an item.
// Non-string attributes are skipped; the port's record model is
// string-valued.
func fromAttributeValues(item map[string]types.AttributeValue) ports.Record {
	out := make(ports.Record, len(item))
	for k, v := range item {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			out[k] = s.Value
		}
	}
	return out
}
