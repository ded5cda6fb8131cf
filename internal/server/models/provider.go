// Package models defines the directory records as callers submit them and as
// they are persisted in the key-value store.
package models

import "github.com/dmitrijs2005/astdirectory/internal/geo"

// Contact holds a provider's public contact channels.
type Contact struct {
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Website string `json:"website" validate:"required"`
}

// ProviderDetails is the caller-supplied part of a provider.
type ProviderDetails struct {
	Pos              *geo.Position `json:"pos" validate:"required"`
	Name             string        `json:"name" validate:"required"`
	Contact          *Contact      `json:"contact" validate:"required"`
	Sponsor          string        `json:"sponsor" validate:"required"`
	LicenseExpiry    string        `json:"license_expiry" validate:"required"`
	InsuranceExpiry  string        `json:"insurance_expiry" validate:"required"`
	LicenseAgreement bool          `json:"license_agreement" validate:"required"`
}

// Provider is a persisted provider. Pos is filled from Geohash on reads and
// never stored.
type Provider struct {
	ProviderID       string                `json:"providerid"`
	Geohash          string                `json:"geohash"`
	Pos              *geo.Position         `json:"pos,omitempty"`
	Name             string                `json:"name"`
	Contact          Contact               `json:"contact"`
	Sponsor          string                `json:"sponsor"`
	LicenseExpiry    string                `json:"license_expiry"`
	InsuranceExpiry  string                `json:"insurance_expiry"`
	LicenseAgreement bool                  `json:"license_agreement"`
	Instructors      map[string]Instructor `json:"instructors"`
}

// Instructor is embedded in a provider's instructors map under a generated id.
type Instructor struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required"`
	CAALevel    string   `json:"caalevel" validate:"required"`
	Memberships []string `json:"memberships" validate:"required"`
}

// NewProvider builds the persisted form of details under id. The instructors
// map always starts empty.
func NewProvider(id string, details *ProviderDetails) *Provider {
	return &Provider{
		ProviderID:       id,
		Geohash:          geo.Encode(*details.Pos),
		Name:             details.Name,
		Contact:          *details.Contact,
		Sponsor:          details.Sponsor,
		LicenseExpiry:    details.LicenseExpiry,
		InsuranceExpiry:  details.InsuranceExpiry,
		LicenseAgreement: details.LicenseAgreement,
		Instructors:      map[string]Instructor{},
	}
}
