package client

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/astdirectory/internal/common"
	gs "github.com/dmitrijs2005/astdirectory/internal/server/grpc"
	"github.com/dmitrijs2005/astdirectory/internal/server/models"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
)

type GRPCClient struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

var _ Client = (*GRPCClient)(nil)

// NewDirectoryClient dials endpointURL without transport security.
func NewDirectoryClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn, cc: conn}, nil
}

// NewFromConn wraps an existing connection. Close is then a no-op.
func NewFromConn(cc grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{cc: cc}
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	if err := c.cc.Invoke(ctx, gs.FullMethod(method), in, out); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GRPCClient) ListProviders(ctx context.Context) ([]models.Provider, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "ListProviders", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decodeList[models.Provider](out)
}

func (c *GRPCClient) GetProvider(ctx context.Context, id string) ([]models.Provider, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "GetProvider", wrapperspb.String(id), out); err != nil {
		return nil, err
	}
	return decodeList[models.Provider](out)
}

func (c *GRPCClient) AddProvider(ctx context.Context, details *models.ProviderDetails) (*models.Provider, error) {
	in, err := encode(details)
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := c.invoke(ctx, "AddProvider", in, out); err != nil {
		return nil, err
	}
	return decode[models.Provider](out)
}

func (c *GRPCClient) UpdateProvider(ctx context.Context, id string, details *models.ProviderDetails) (*models.Provider, error) {
	in, err := encode(map[string]any{"providerid": id, "provider": details})
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := c.invoke(ctx, "UpdateProvider", in, out); err != nil {
		return nil, err
	}
	return decode[models.Provider](out)
}

func (c *GRPCClient) AddInstructor(ctx context.Context, providerID string, details *models.Instructor) (string, error) {
	in, err := encode(map[string]any{"providerid": providerID, "instructor": details})
	if err != nil {
		return "", err
	}

	out := &wrapperspb.StringValue{}
	if err := c.invoke(ctx, "AddInstructor", in, out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *GRPCClient) UpdateInstructor(ctx context.Context, providerID, instructorID string, details *models.Instructor) error {
	in, err := encode(map[string]any{"providerid": providerID, "instructorid": instructorID, "instructor": details})
	if err != nil {
		return err
	}
	return c.invoke(ctx, "UpdateInstructor", in, &emptypb.Empty{})
}

func (c *GRPCClient) ListCourses(ctx context.Context) ([]models.Course, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "ListCourses", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decodeList[models.Course](out)
}

func (c *GRPCClient) GetCourse(ctx context.Context, id string) ([]models.Course, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "GetCourse", wrapperspb.String(id), out); err != nil {
		return nil, err
	}
	return decodeList[models.Course](out)
}

func (c *GRPCClient) AddCourse(ctx context.Context, details *models.CourseDetails) (*models.Course, error) {
	in, err := encode(details)
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := c.invoke(ctx, "AddCourse", in, out); err != nil {
		return nil, err
	}
	return decode[models.Course](out)
}

func (c *GRPCClient) UpdateCourse(ctx context.Context, id string, details *models.CourseDetails) (*models.Course, error) {
	in, err := encode(map[string]any{"courseid": id, "course": details})
	if err != nil {
		return nil, err
	}

	out := &structpb.Struct{}
	if err := c.invoke(ctx, "UpdateCourse", in, out); err != nil {
		return nil, err
	}
	return decode[models.Course](out)
}

// mapError keeps the server's message and attaches the matching sentinel.
func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorValidation)
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorNotFound)
	case codes.Unavailable:
		return fmt.Errorf("%s: %w", st.Message(), ErrUnavailable)
	case codes.Internal:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorInternal)
	default:
		return err
	}
}

func encode(v any) (*structpb.Struct, error) {
	doc, err := store.ToDocument(v)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(doc)
}

func decode[T any](in *structpb.Struct) (*T, error) {
	b, err := protojson.Marshal(in)
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeList[T any](in *structpb.ListValue) ([]T, error) {
	b, err := protojson.Marshal(in)
	if err != nil {
		return nil, err
	}

	out := []T{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
