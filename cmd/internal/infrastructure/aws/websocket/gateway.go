package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/labstack/gommon/log"
)

const HeaderConnectionID = "X-Connection-Id"

// ErrGone is returned when the gateway no longer knows the connection.
var ErrGone = errors.New("connection is gone")

type GatewayClient interface {
	PostToConnection(ctx context.Context, connID string, data any) error
	DeleteConnection(ctx context.Context, connID string) error
}

// ManagementAPI is the part of the API Gateway management client we use.
type ManagementAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
	DeleteConnection(ctx context.Context, params *apigatewaymanagementapi.DeleteConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.DeleteConnectionOutput, error)
}

type AWSGatewayClient struct {
	client ManagementAPI
}

func NewAWSGatewayClient(ctx context.Context, endpoint, region string) (*AWSGatewayClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.Region = region
	})
	return NewGatewayClient(client), nil
}

func NewGatewayClient(api ManagementAPI) *AWSGatewayClient {
	return &AWSGatewayClient{client: api}
}

func (g *AWSGatewayClient) PostToConnection(ctx context.Context, connID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = g.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connID),
		Data:         payload,
	})
	if err != nil {
		log.Warnf("failed to push to connection %s: %v", connID, err)
		return translate(err)
	}
	return nil
}

func (g *AWSGatewayClient) DeleteConnection(ctx context.Context, connID string) error {
	_, err := g.client.DeleteConnection(ctx, &apigatewaymanagementapi.DeleteConnectionInput{
		ConnectionId: aws.String(connID),
	})
	return translate(err)
}

func translate(err error) error {
	var gone *types.GoneException
	if errors.As(err, &gone) {
		return ErrGone
	}
	return err
}
