package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"

	"github.com/marioalvarez/rusty-api-maz/internal/adapters/dynamo"
	s3adapter "github.com/marioalvarez/rusty-api-maz/internal/adapters/s3"
	"github.com/marioalvarez/rusty-api-maz/internal/config"
	"github.com/marioalvarez/rusty-api-maz/internal/processor"
	"github.com/marioalvarez/rusty-api-maz/internal/transport"
)

var handler *transport.Handler

func init() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region),
	)
	if err != nil {
		panic("Failed to load AWS configuration: " + err.Error())
	}

	// Clients and the processor are built once per cold start and reused
	// across invocations.
	database := dynamo.NewFromConfig(awsCfg)
	storage := s3adapter.NewFromConfig(awsCfg, s3adapter.Options{
		EndpointURL:  cfg.AWS.EndpointURL,
		UsePathStyle: cfg.AWS.S3UsePathStyle,
	})

	handler = transport.NewHandler(processor.New(database, storage, cfg.Demo))

	logrus.WithFields(logrus.Fields{
		"mode":   config.GetDeploymentMode(),
		"region": cfg.AWS.Region,
	}).Info("Lambda container initialized")
}

func handleRequest(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req := &transport.Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		PathParams:  event.PathParameters,
		Body:        []byte(event.Body),
	}

	resp := handler.Handle(ctx, req)

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}, nil
}

func main() {
	awslambda.Start(handleRequest)
}
