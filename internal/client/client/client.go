package client

import (
	"context"

	"github.com/dmitrijs2005/astdirectory/internal/server/models"
)

type Client interface {
	Close() error
	ListProviders(ctx context.Context) ([]models.Provider, error)
	GetProvider(ctx context.Context, id string) ([]models.Provider, error)
	AddProvider(ctx context.Context, details *models.ProviderDetails) (*models.Provider, error)
	UpdateProvider(ctx context.Context, id string, details *models.ProviderDetails) (*models.Provider, error)
	AddInstructor(ctx context.Context, providerID string, details *models.Instructor) (string, error)
	UpdateInstructor(ctx context.Context, providerID, instructorID string, details *models.Instructor) error
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) ([]models.Course, error)
	AddCourse(ctx context.Context, details *models.CourseDetails) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, details *models.CourseDetails) (*models.Course, error)
}
