package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/vgmprofile/internal/profile"
	"github.com/xtding233/vgmprofile/internal/rom"
	"github.com/xtding233/vgmprofile/internal/service"
)

const ServiceName = "vgmprofile.v1.ProfileService"

const (
	resolveMethod   = "/" + ServiceName + "/Resolve"
	listGamesMethod = "/" + ServiceName + "/ListGames"
)

// ProfileServiceServer is the server API of vgmprofile.v1.ProfileService.
// Payloads use the well-known wrapper and struct types, so no generated
// stubs are needed.
type ProfileServiceServer interface {
	// Resolve takes a ROM image and returns the configuration summary.
	Resolve(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	// ListGames returns every document key with its inherited name.
	ListGames(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

var ProfileServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
		{MethodName: "ListGames", Handler: listGamesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vgmprofile/v1/profile.proto",
}

func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileServiceDesc, srv)
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: resolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProfileServiceServer).Resolve(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listGamesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).ListGames(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listGamesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProfileServiceServer).ListGames(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// profileService adapts service.Service to the gRPC API.
type profileService struct {
	svc *service.Service
}

func NewProfileService(svc *service.Service) ProfileServiceServer {
	return &profileService{svc: svc}
}

func (p *profileService) Resolve(_ context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error) {
	summary, err := p.svc.Resolve(in.GetValue(), "grpc")
	if err != nil {
		return nil, statusFromError(err)
	}
	out, err := structFromValue(summary)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode summary: %v", err)
	}
	return out, nil
}

func (p *profileService) ListGames(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	games, err := p.svc.Games()
	if err != nil {
		return nil, statusFromError(err)
	}
	items := make([]any, len(games))
	for i, g := range games {
		m := map[string]any{"key": g.Key, "name": g.Name}
		if g.Error != "" {
			m["error"] = g.Error
		}
		items[i] = m
	}
	out, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode games: %v", err)
	}
	return out, nil
}

func structFromValue(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return structpb.NewStruct(payload)
}

func statusFromError(err error) error {
	switch {
	case errors.Is(err, profile.ErrConfigNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, rom.ErrTooSmall):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, profile.ErrMissingField),
		errors.Is(err, profile.ErrInvalidValue),
		errors.Is(err, profile.ErrDuplicateSongIndex),
		errors.Is(err, profile.ErrSongTableLengthMismatch),
		errors.Is(err, profile.ErrCyclicInheritance),
		errors.Is(err, profile.ErrDocumentParse):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
