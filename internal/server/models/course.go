package models

import "github.com/dmitrijs2005/astdirectory/internal/geo"

// CourseDetails is the caller-supplied part of a course.
type CourseDetails struct {
	ProviderID string        `json:"providerid" validate:"required"`
	Pos        *geo.Position `json:"pos" validate:"required"`
	Name       string        `json:"name" validate:"required"`
	Date       string        `json:"date" validate:"required"`
	Level      string        `json:"level" validate:"required"`
	Desc       string        `json:"desc" validate:"required"`
	Tags       []string      `json:"tags" validate:"required"`
}

// Course is a persisted course. ProviderID is not checked against the
// provider table.
type Course struct {
	CourseID   string        `json:"courseid"`
	ProviderID string        `json:"providerid"`
	Geohash    string        `json:"geohash"`
	Pos        *geo.Position `json:"pos,omitempty"`
	Name       string        `json:"name"`
	Date       string        `json:"date"`
	Level      string        `json:"level"`
	Desc       string        `json:"desc"`
	Tags       []string      `json:"tags"`
}

// NewCourse builds the persisted form of details under id.
func NewCourse(id string, details *CourseDetails) *Course {
	return &Course{
		CourseID:   id,
		ProviderID: details.ProviderID,
		Geohash:    geo.Encode(*details.Pos),
		Name:       details.Name,
		Date:       details.Date,
		Level:      details.Level,
		Desc:       details.Desc,
		Tags:       details.Tags,
	}
}
