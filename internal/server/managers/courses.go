package managers

import (
	"context"

	"github.com/dmitrijs2005/astdirectory/internal/geo"
	"github.com/dmitrijs2005/astdirectory/internal/logging"
	"github.com/dmitrijs2005/astdirectory/internal/server/models"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
)

const courseKey = "courseid"

// CourseManager serves courses. The provider a course names is not checked.
type CourseManager struct {
	records pipeline[models.CourseDetails, models.Course]
	newID   func() string
	logger  logging.Logger
}

// NewCourseManager binds course operations to table in s.
func NewCourseManager(s store.Store, table string, opts ...Option) *CourseManager {
	o := buildOptions(opts)
	logger := o.logger.With("module", "courses")

	return &CourseManager{
		records: pipeline[models.CourseDetails, models.Course]{
			store:    s,
			table:    table,
			keyName:  courseKey,
			logger:   logger,
			validate: o.validator.Course,
			build:    models.NewCourse,
			geohash: func(c *models.Course) (*string, **geo.Position) {
				return &c.Geohash, &c.Pos
			},
		},
		newID:  o.newID,
		logger: logger,
	}
}

// ListCourses returns every course in store scan order.
func (m *CourseManager) ListCourses(ctx context.Context) ([]models.Course, error) {
	return m.records.list(ctx)
}

// GetCourse returns the courses whose id equals id: one or none.
func (m *CourseManager) GetCourse(ctx context.Context, id string) ([]models.Course, error) {
	return m.records.get(ctx, id)
}

// AddCourse stores a new course under a generated id.
func (m *CourseManager) AddCourse(ctx context.Context, details *models.CourseDetails) (*models.Course, error) {
	c, err := m.records.put(ctx, "add", m.newID(), details, store.None)
	if err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "course added", "courseid", c.CourseID)
	return c, nil
}

// UpdateCourse replaces the whole course stored under id. The write is
// conditional on the course existing, so a missing id yields
// common.ErrorNotFound and nothing is created.
func (m *CourseManager) UpdateCourse(ctx context.Context, id string, details *models.CourseDetails) (*models.Course, error) {
	c, err := m.records.put(ctx, "update", id, details, store.MustExist)
	if err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "course updated", "courseid", id)
	return c, nil
}
