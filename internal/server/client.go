package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls vgmprofile.v1.ProfileService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Resolve sends a ROM image and returns the configuration summary.
func (c *Client) Resolve(ctx context.Context, image []byte) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, resolveMethod, wrapperspb.Bytes(image), out, grpc.MaxCallSendMsgSize(MaxMessageSize))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListGames(ctx context.Context) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listGamesMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}
