package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	openPackMethod = "/" + ServiceName + "/OpenPack"
	progressMethod = "/" + ServiceName + "/Progress"
)

// ServiceDesc describes booster.v1.BoosterService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BoosterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OpenPack", Handler: openPackHandler},
		{MethodName: "Progress", Handler: progressHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "booster/v1/booster.proto",
}

func openPackHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoosterServer).OpenPack(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: openPackMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoosterServer).OpenPack(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func progressHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoosterServer).Progress(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: progressMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoosterServer).Progress(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls booster.v1.BoosterService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) OpenPack(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, openPackMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Progress(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, progressMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
