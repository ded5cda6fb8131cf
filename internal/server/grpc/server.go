// Package grpc exposes the provider and course managers as the
// ast.v1.Directory gRPC service.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/astdirectory/internal/logging"
	"github.com/dmitrijs2005/astdirectory/internal/server/models"
)

// ProviderService is the provider side of the directory.
type ProviderService interface {
	ListProviders(ctx context.Context) ([]models.Provider, error)
	GetProvider(ctx context.Context, id string) ([]models.Provider, error)
	AddProvider(ctx context.Context, details *models.ProviderDetails) (*models.Provider, error)
	UpdateProvider(ctx context.Context, id string, details *models.ProviderDetails) (*models.Provider, error)
	AddInstructor(ctx context.Context, providerID string, details *models.Instructor) (string, error)
	UpdateInstructor(ctx context.Context, providerID, instructorID string, details *models.Instructor) error
}

// CourseService is the course side of the directory.
type CourseService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) ([]models.Course, error)
	AddCourse(ctx context.Context, details *models.CourseDetails) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, details *models.CourseDetails) (*models.Course, error)
}

type GRPCServer struct {
	address   string
	providers ProviderService
	courses   CourseService
	logger    logging.Logger
}

var _ DirectoryServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, ps ProviderService, cs CourseService) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		providers: ps,
		courses:   cs,
	}, nil
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.recoverInterceptor))

	// registers service
	RegisterDirectoryServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
