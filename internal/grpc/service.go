package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// QueryFullMethod is the full gRPC method name of SeriesService.Query.
const QueryFullMethod = "/histseries.v1.SeriesService/Query"

// SeriesServiceServer is the server API of histseries.v1.SeriesService.
// Requests and responses are google.protobuf.Struct messages; see
// RequestValidator for the accepted fields.
type SeriesServiceServer interface {
	Query(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes histseries.v1.SeriesService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "histseries.v1.SeriesService",
	HandlerType: (*SeriesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Query",
			Handler:    queryHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "histseries/v1/series.proto",
}

func RegisterSeriesServiceServer(s grpc.ServiceRegistrar, srv SeriesServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func queryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SeriesServiceServer).Query(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: QueryFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SeriesServiceServer).Query(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// SeriesServiceClient is the client API of histseries.v1.SeriesService.
type SeriesServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSeriesServiceClient(cc grpc.ClientConnInterface) *SeriesServiceClient {
	return &SeriesServiceClient{cc: cc}
}

func (c *SeriesServiceClient) Query(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, QueryFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
