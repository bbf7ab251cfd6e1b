package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

type fakeAPI struct {
	posted  map[string][]byte
	deleted []string
	err     error
}

func (f *fakeAPI) PostToConnection(_ context.Context, in *apigatewaymanagementapi.PostToConnectionInput, _ ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.posted[*in.ConnectionId] = in.Data
	return &apigatewaymanagementapi.PostToConnectionOutput{}, nil
}

func (f *fakeAPI) DeleteConnection(_ context.Context, in *apigatewaymanagementapi.DeleteConnectionInput, _ ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.DeleteConnectionOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, *in.ConnectionId)
	return &apigatewaymanagementapi.DeleteConnectionOutput{}, nil
}

func TestPostToConnection_MarshalsPayload(t *testing.T) {
	api := &fakeAPI{posted: map[string][]byte{}}
	client := NewGatewayClient(api)

	err := client.PostToConnection(context.Background(), "conn-1", map[string]string{"type": "NOTE_CREATED"})
	if err != nil {
		t.Fatalf("PostToConnection failed: %v", err)
	}

	var got map[string]string
	if err = json.Unmarshal(api.posted["conn-1"], &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got["type"] != "NOTE_CREATED" {
		t.Errorf("type = %q, want NOTE_CREATED", got["type"])
	}
}

func TestGoneConnectionsAreTranslated(t *testing.T) {
	api := &fakeAPI{err: &types.GoneException{}}
	client := NewGatewayClient(api)

	if err := client.PostToConnection(context.Background(), "conn-1", "x"); !errors.Is(err, ErrGone) {
		t.Errorf("PostToConnection error = %v, want ErrGone", err)
	}
	if err := client.DeleteConnection(context.Background(), "conn-1"); !errors.Is(err, ErrGone) {
		t.Errorf("DeleteConnection error = %v, want ErrGone", err)
	}
}
