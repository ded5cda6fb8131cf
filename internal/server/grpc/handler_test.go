package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/astdirectory/internal/common"
	"github.com/dmitrijs2005/astdirectory/internal/geo"
	"github.com/dmitrijs2005/astdirectory/internal/logging"
	"github.com/dmitrijs2005/astdirectory/internal/server/models"
)

// ---- fakes ----

type fakeProviders struct {
	calls int

	list []models.Provider
	err  error

	gotID           string
	gotInstructorID string
	gotDetails      *models.ProviderDetails
	gotInstructor   *models.Instructor

	instructorID string
}

func (f *fakeProviders) ListProviders(ctx context.Context) ([]models.Provider, error) {
	f.calls++
	return f.list, f.err
}

func (f *fakeProviders) GetProvider(ctx context.Context, id string) ([]models.Provider, error) {
	f.calls++
	f.gotID = id
	return f.list, f.err
}

func (f *fakeProviders) AddProvider(ctx context.Context, details *models.ProviderDetails) (*models.Provider, error) {
	f.calls++
	f.gotDetails = details
	if f.err != nil {
		return nil, f.err
	}
	return models.NewProvider("p-1", details), nil
}

func (f *fakeProviders) UpdateProvider(ctx context.Context, id string, details *models.ProviderDetails) (*models.Provider, error) {
	f.calls++
	f.gotID, f.gotDetails = id, details
	if f.err != nil {
		return nil, f.err
	}
	p := models.NewProvider(id, details)
	p.Instructors = nil
	return p, nil
}

func (f *fakeProviders) AddInstructor(ctx context.Context, providerID string, details *models.Instructor) (string, error) {
	f.calls++
	f.gotID, f.gotInstructor = providerID, details
	return f.instructorID, f.err
}

func (f *fakeProviders) UpdateInstructor(ctx context.Context, providerID, instructorID string, details *models.Instructor) error {
	f.calls++
	f.gotID, f.gotInstructorID, f.gotInstructor = providerID, instructorID, details
	return f.err
}

type fakeCourses struct {
	list []models.Course
	err  error

	gotID      string
	gotDetails *models.CourseDetails
}

func (f *fakeCourses) ListCourses(ctx context.Context) ([]models.Course, error) {
	return f.list, f.err
}

func (f *fakeCourses) GetCourse(ctx context.Context, id string) ([]models.Course, error) {
	f.gotID = id
	return f.list, f.err
}

func (f *fakeCourses) AddCourse(ctx context.Context, details *models.CourseDetails) (*models.Course, error) {
	f.gotDetails = details
	if f.err != nil {
		return nil, f.err
	}
	return models.NewCourse("c-1", details), nil
}

func (f *fakeCourses) UpdateCourse(ctx context.Context, id string, details *models.CourseDetails) (*models.Course, error) {
	f.gotID, f.gotDetails = id, details
	if f.err != nil {
		return nil, f.err
	}
	return models.NewCourse(id, details), nil
}

// ---- helpers ----

func newServer(p ProviderService, c CourseService) *GRPCServer {
	srv, _ := NewGRPCServer("127.0.0.1:0", logging.Nop{}, p, c)
	return srv
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func providerPayload() map[string]any {
	return map[string]any{
		"pos":               map[string]any{"latitude": 51.5, "longitude": -0.12},
		"name":              "Acme Diving",
		"contact":           map[string]any{"phone": "123", "email": "a@b.com", "website": "http://x"},
		"sponsor":           "PADI",
		"license_expiry":    "2030-01-01",
		"insurance_expiry":  "2030-01-01",
		"license_agreement": true,
	}
}

func coursePayload() map[string]any {
	return map[string]any{
		"providerid": "p-1",
		"pos":        map[string]any{"latitude": 46.02, "longitude": 7.75},
		"name":       "Avalanche Level 1",
		"date":       "2031-02-14",
		"level":      "1",
		"desc":       "Three days",
		"tags":       []any{"avalanche"},
	}
}

// ---- tests ----

func TestListProviders_EncodesRecords(t *testing.T) {
	pos := geo.Position{Latitude: 51.5, Longitude: -0.12}
	p := models.Provider{ProviderID: "p-1", Geohash: "gcpuvr295", Pos: &pos, Name: "Acme", Instructors: map[string]models.Instructor{
		"i-1": {Name: "sam", Email: "s@x", CAALevel: "ML", Memberships: []string{"BMC"}},
	}}
	s := newServer(&fakeProviders{list: []models.Provider{p}}, &fakeCourses{})

	resp, err := s.ListProviders(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, resp.GetValues(), 1)

	rec := resp.GetValues()[0].GetStructValue().AsMap()
	assert.Equal(t, "p-1", rec["providerid"])
	assert.Equal(t, "gcpuvr295", rec["geohash"])
	assert.Equal(t, map[string]any{"latitude": 51.5, "longitude": -0.12}, rec["pos"])
	assert.Equal(t, map[string]any{
		"i-1": map[string]any{"name": "sam", "email": "s@x", "caalevel": "ML", "memberships": []any{"BMC"}},
	}, rec["instructors"])
}

func TestGetProvider_EmptyIsNotAnError(t *testing.T) {
	f := &fakeProviders{list: []models.Provider{}}
	s := newServer(f, &fakeCourses{})

	resp, err := s.GetProvider(context.Background(), wrapperspb.String("nonexistent-id"))
	require.NoError(t, err)
	assert.Empty(t, resp.GetValues())
	assert.Equal(t, "nonexistent-id", f.gotID)
}

func TestAddProvider_DecodesPayload(t *testing.T) {
	f := &fakeProviders{}
	s := newServer(f, &fakeCourses{})

	resp, err := s.AddProvider(context.Background(), mustStruct(t, providerPayload()))
	require.NoError(t, err)

	require.NotNil(t, f.gotDetails)
	assert.Equal(t, &geo.Position{Latitude: 51.5, Longitude: -0.12}, f.gotDetails.Pos)
	assert.Equal(t, &models.Contact{Phone: "123", Email: "a@b.com", Website: "http://x"}, f.gotDetails.Contact)
	assert.True(t, f.gotDetails.LicenseAgreement)

	out := resp.AsMap()
	assert.Equal(t, "p-1", out["providerid"])
	assert.Equal(t, "gcpuvr295", out["geohash"])
	assert.Equal(t, map[string]any{}, out["instructors"])
}

func TestAddProvider_MalformedPayload(t *testing.T) {
	f := &fakeProviders{}
	s := newServer(f, &fakeCourses{})

	payload := providerPayload()
	payload["pos"] = map[string]any{"latitude": "north", "longitude": -0.12}

	_, err := s.AddProvider(context.Background(), mustStruct(t, payload))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, 0, f.calls)
}

func TestUpdateProvider_UnwrapsEnvelope(t *testing.T) {
	f := &fakeProviders{}
	s := newServer(f, &fakeCourses{})

	req := mustStruct(t, map[string]any{"providerid": "p-9", "provider": providerPayload()})
	resp, err := s.UpdateProvider(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "p-9", f.gotID)
	assert.Equal(t, "Acme Diving", f.gotDetails.Name)
	assert.Nil(t, resp.AsMap()["instructors"])
}

func TestUpdateProvider_MissingPayloadReachesManager(t *testing.T) {
	f := &fakeProviders{err: &fakeValidation{}}
	s := newServer(f, &fakeCourses{})

	_, err := s.UpdateProvider(context.Background(), mustStruct(t, map[string]any{"providerid": "p-9"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Nil(t, f.gotDetails)
}

func TestInstructorHandlers(t *testing.T) {
	f := &fakeProviders{instructorID: "i-7"}
	s := newServer(f, &fakeCourses{})
	ctx := context.Background()

	instructor := map[string]any{"name": "sam", "email": "s@x", "caalevel": "ML", "memberships": []any{"BMC"}}

	id, err := s.AddInstructor(ctx, mustStruct(t, map[string]any{"providerid": "p-1", "instructor": instructor}))
	require.NoError(t, err)
	assert.Equal(t, "i-7", id.GetValue())
	assert.Equal(t, "p-1", f.gotID)
	assert.Equal(t, &models.Instructor{Name: "sam", Email: "s@x", CAALevel: "ML", Memberships: []string{"BMC"}}, f.gotInstructor)

	_, err = s.UpdateInstructor(ctx, mustStruct(t, map[string]any{"providerid": "p-2", "instructorid": "i-7", "instructor": instructor}))
	require.NoError(t, err)
	assert.Equal(t, "p-2", f.gotID)
	assert.Equal(t, "i-7", f.gotInstructorID)
}

func TestCourseHandlers(t *testing.T) {
	f := &fakeCourses{list: []models.Course{{CourseID: "c-1", Tags: []string{"a"}}}}
	s := newServer(&fakeProviders{}, f)
	ctx := context.Background()

	list, err := s.ListCourses(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Len(t, list.GetValues(), 1)

	got, err := s.GetCourse(ctx, wrapperspb.String("c-1"))
	require.NoError(t, err)
	assert.Equal(t, "c-1", f.gotID)
	assert.Equal(t, "c-1", got.GetValues()[0].GetStructValue().AsMap()["courseid"])

	added, err := s.AddCourse(ctx, mustStruct(t, coursePayload()))
	require.NoError(t, err)
	assert.Equal(t, "c-1", added.AsMap()["courseid"])
	assert.Equal(t, []string{"avalanche"}, f.gotDetails.Tags)

	updated, err := s.UpdateCourse(ctx, mustStruct(t, map[string]any{"courseid": "c-5", "course": coursePayload()}))
	require.NoError(t, err)
	assert.Equal(t, "c-5", f.gotID)
	assert.Equal(t, "c-5", updated.AsMap()["courseid"])
}

type fakeValidation struct{}

func (fakeValidation) Error() string { return "unable to update provider invalid input where provider = null" }
func (fakeValidation) Unwrap() error { return common.ErrorValidation }

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", &fakeValidation{}, codes.InvalidArgument},
		{"not found", fmt.Errorf("ast-courses: %w", common.ErrorNotFound), codes.NotFound},
		{"canceled", context.Canceled, codes.Canceled},
		{"deadline", fmt.Errorf("scan: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"store", errors.New("ProvisionedThroughputExceededException"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(&fakeProviders{err: tt.err}, &fakeCourses{err: tt.err})

			_, err := s.ListProviders(context.Background(), &emptypb.Empty{})
			assert.Equal(t, tt.want, status.Code(err))

			_, err = s.UpdateCourse(context.Background(), mustStruct(t, map[string]any{"courseid": "c-1", "course": coursePayload()}))
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestToStatus_InternalKeepsCause(t *testing.T) {
	err := toStatus(errors.New("ProvisionedThroughputExceededException"))

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error: ProvisionedThroughputExceededException", st.Message())
}
