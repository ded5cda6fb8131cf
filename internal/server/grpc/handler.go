package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/astdirectory/internal/common"
	"github.com/dmitrijs2005/astdirectory/internal/server/models"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
)

func (s *GRPCServer) ListProviders(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	result, err := s.providers.ListProviders(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeList(result)
}

func (s *GRPCServer) GetProvider(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	result, err := s.providers.GetProvider(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeList(result)
}

func (s *GRPCServer) AddProvider(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	details, err := decode[models.ProviderDetails](req)
	if err != nil {
		return nil, err
	}

	result, err := s.providers.AddProvider(ctx, details)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(result)
}

func (s *GRPCServer) UpdateProvider(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	details, err := decode[models.ProviderDetails](req.GetFields()["provider"].GetStructValue())
	if err != nil {
		return nil, err
	}

	result, err := s.providers.UpdateProvider(ctx, stringField(req, "providerid"), details)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(result)
}

func (s *GRPCServer) AddInstructor(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	details, err := decode[models.Instructor](req.GetFields()["instructor"].GetStructValue())
	if err != nil {
		return nil, err
	}

	id, err := s.providers.AddInstructor(ctx, stringField(req, "providerid"), details)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(id), nil
}

func (s *GRPCServer) UpdateInstructor(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	details, err := decode[models.Instructor](req.GetFields()["instructor"].GetStructValue())
	if err != nil {
		return nil, err
	}

	err = s.providers.UpdateInstructor(ctx, stringField(req, "providerid"), stringField(req, "instructorid"), details)
	if err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ListCourses(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	result, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeList(result)
}

func (s *GRPCServer) GetCourse(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	result, err := s.courses.GetCourse(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeList(result)
}

func (s *GRPCServer) AddCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	details, err := decode[models.CourseDetails](req)
	if err != nil {
		return nil, err
	}

	result, err := s.courses.AddCourse(ctx, details)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(result)
}

func (s *GRPCServer) UpdateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	details, err := decode[models.CourseDetails](req.GetFields()["course"].GetStructValue())
	if err != nil {
		return nil, err
	}

	result, err := s.courses.UpdateCourse(ctx, stringField(req, "courseid"), details)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(result)
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, fmt.Errorf("%w: %v", common.ErrorInternal, err).Error())
	}
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

// decode converts a request object into T. A nil object yields a nil payload,
// which the managers reject as a validation error.
func decode[T any](in *structpb.Struct) (*T, error) {
	if in == nil {
		return nil, nil
	}

	b, err := protojson.Marshal(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed payload: %v", err)
	}
	return out, nil
}

func encode(v any) (*structpb.Struct, error) {
	doc, err := store.ToDocument(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	out, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func encodeList[T any](records []T) (*structpb.ListValue, error) {
	items := make([]any, 0, len(records))
	for i := range records {
		doc, err := store.ToDocument(&records[i])
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		items = append(items, map[string]any(doc))
	}

	out, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
