package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "ast.v1.Directory"

// DirectoryServer is the server API for the ast.v1.Directory service.
//
// Messages are protobuf well-known types. Records travel as structpb.Struct
// objects keyed by their JSON attribute names; lists as structpb.ListValue.
// Requests that address an existing record wrap the payload together with
// its ids:
//
//	UpdateProvider   {"providerid": ..., "provider": {...}}
//	AddInstructor    {"providerid": ..., "instructor": {...}}
//	UpdateInstructor {"providerid": ..., "instructorid": ..., "instructor": {...}}
//	UpdateCourse     {"courseid": ..., "course": {...}}
type DirectoryServer interface {
	ListProviders(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetProvider(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	AddProvider(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProvider(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddInstructor(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	UpdateInstructor(context.Context, *structpb.Struct) (*emptypb.Empty, error)

	ListCourses(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetCourse(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	AddCourse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCourse(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FullMethod returns the "/service/method" path of a Directory method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the method descriptor for a DirectoryServer method, the same
// way protoc-gen-go-grpc does for each generated handler.
func unary[Req, Resp any](name string, call func(DirectoryServer, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DirectoryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DirectoryServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// DirectoryServiceDesc is the grpc.ServiceDesc for ast.v1.Directory.
var DirectoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListProviders", DirectoryServer.ListProviders),
		unary("GetProvider", DirectoryServer.GetProvider),
		unary("AddProvider", DirectoryServer.AddProvider),
		unary("UpdateProvider", DirectoryServer.UpdateProvider),
		unary("AddInstructor", DirectoryServer.AddInstructor),
		unary("UpdateInstructor", DirectoryServer.UpdateInstructor),
		unary("ListCourses", DirectoryServer.ListCourses),
		unary("GetCourse", DirectoryServer.GetCourse),
		unary("AddCourse", DirectoryServer.AddCourse),
		unary("UpdateCourse", DirectoryServer.UpdateCourse),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ast/v1/directory.proto",
}

// RegisterDirectoryServer registers srv with s.
func RegisterDirectoryServer(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&DirectoryServiceDesc, srv)
}
