// Package proto describes the leaderboard gRPC service. Messages are protobuf
// well-known types so no code generation is needed:
//
//	service Leaderboard {
//	  rpc Submit(google.protobuf.Struct) returns (google.protobuf.StringValue);
//	  rpc Top(google.protobuf.Int32Value) returns (google.protobuf.ListValue);
//	}
//
// Submit takes an entry and returns the ID it was stored under. Top returns a
// list of entries, best first.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	LeaderboardServiceName   = "tetris.Leaderboard"
	LeaderboardSubmitMethod  = "/tetris.Leaderboard/Submit"
	LeaderboardTopMethod     = "/tetris.Leaderboard/Top"
	leaderboardProtoMetadata = "leaderboard.proto"
)

type LeaderboardClient interface {
	Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Top(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type leaderboardClient struct {
	cc grpc.ClientConnInterface
}

func NewLeaderboardClient(cc grpc.ClientConnInterface) LeaderboardClient {
	return &leaderboardClient{cc}
}

func (c *leaderboardClient) Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, LeaderboardSubmitMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *leaderboardClient) Top(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, LeaderboardTopMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// LeaderboardServer must embed UnimplementedLeaderboardServer.
type LeaderboardServer interface {
	Submit(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Top(context.Context, *wrapperspb.Int32Value) (*structpb.ListValue, error)
	mustEmbedUnimplementedLeaderboardServer()
}

type UnimplementedLeaderboardServer struct{}

func (UnimplementedLeaderboardServer) Submit(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Submit not implemented")
}

func (UnimplementedLeaderboardServer) Top(context.Context, *wrapperspb.Int32Value) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Top not implemented")
}

func (UnimplementedLeaderboardServer) mustEmbedUnimplementedLeaderboardServer() {}

func RegisterLeaderboardServer(s grpc.ServiceRegistrar, srv LeaderboardServer) {
	s.RegisterService(&LeaderboardServiceDesc, srv)
}

func submitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LeaderboardServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LeaderboardSubmitMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LeaderboardServer).Submit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func topHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LeaderboardServer).Top(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LeaderboardTopMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LeaderboardServer).Top(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}

var LeaderboardServiceDesc = grpc.ServiceDesc{
	ServiceName: LeaderboardServiceName,
	HandlerType: (*LeaderboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitHandler},
		{MethodName: "Top", Handler: topHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: leaderboardProtoMetadata,
}
