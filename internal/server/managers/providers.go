package managers

import (
	"context"

	"github.com/dmitrijs2005/astdirectory/internal/geo"
	"github.com/dmitrijs2005/astdirectory/internal/logging"
	"github.com/dmitrijs2005/astdirectory/internal/server/models"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
	"github.com/dmitrijs2005/astdirectory/internal/server/validation"
)

const providerKey = "providerid"

// ProviderManager serves providers and their embedded instructors.
type ProviderManager struct {
	records   pipeline[models.ProviderDetails, models.Provider]
	validator *validation.Validator
	newID     func() string
	logger    logging.Logger
}

// NewProviderManager binds provider operations to table in s.
func NewProviderManager(s store.Store, table string, opts ...Option) *ProviderManager {
	o := buildOptions(opts)
	logger := o.logger.With("module", "providers")

	return &ProviderManager{
		records: pipeline[models.ProviderDetails, models.Provider]{
			store:    s,
			table:    table,
			keyName:  providerKey,
			logger:   logger,
			validate: o.validator.Provider,
			build:    models.NewProvider,
			geohash: func(p *models.Provider) (*string, **geo.Position) {
				return &p.Geohash, &p.Pos
			},
		},
		validator: o.validator,
		newID:     o.newID,
		logger:    logger,
	}
}

// ListProviders returns every provider in store scan order.
func (m *ProviderManager) ListProviders(ctx context.Context) ([]models.Provider, error) {
	return m.records.list(ctx)
}

// GetProvider returns the providers whose id equals id: one or none.
func (m *ProviderManager) GetProvider(ctx context.Context, id string) ([]models.Provider, error) {
	return m.records.get(ctx, id)
}

// AddProvider stores a new provider under a generated id with no instructors.
func (m *ProviderManager) AddProvider(ctx context.Context, details *models.ProviderDetails) (*models.Provider, error) {
	p, err := m.records.put(ctx, "add", m.newID(), details, store.None)
	if err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "provider added", "providerid", p.ProviderID)
	return p, nil
}

// UpdateProvider overwrites every provider field except instructors. The
// returned record has a nil Instructors map because the stored one is not read.
func (m *ProviderManager) UpdateProvider(ctx context.Context, id string, details *models.ProviderDetails) (*models.Provider, error) {
	if err := m.validator.Provider("update", details); err != nil {
		return nil, err
	}

	p := models.NewProvider(id, details)
	p.Instructors = nil

	set := []store.Assignment{
		store.Set("name", p.Name),
		store.Set("geohash", p.Geohash),
		store.Set("contact", p.Contact),
		store.Set("sponsor", p.Sponsor),
		store.Set("license_expiry", p.LicenseExpiry),
		store.Set("license_agreement", p.LicenseAgreement),
		store.Set("insurance_expiry", p.InsuranceExpiry),
	}

	m.logger.Debug(ctx, "update", "table", m.records.table, "key", id, "set", set)
	if err := m.records.store.Update(ctx, m.records.table, m.records.key(id), set); err != nil {
		return nil, err
	}

	m.records.locate(ctx, p)
	return p, nil
}

// AddInstructor stores details under a new id inside the provider's
// instructors map and returns that id. Existing entries are not touched.
func (m *ProviderManager) AddInstructor(ctx context.Context, providerID string, details *models.Instructor) (string, error) {
	if err := m.validator.Instructor("add", details); err != nil {
		return "", err
	}

	instructorID := m.newID()
	if err := m.setInstructor(ctx, providerID, instructorID, details); err != nil {
		return "", err
	}
	return instructorID, nil
}

// UpdateInstructor replaces one entry of the provider's instructors map.
func (m *ProviderManager) UpdateInstructor(ctx context.Context, providerID, instructorID string, details *models.Instructor) error {
	if err := m.validator.Instructor("update", details); err != nil {
		return err
	}
	if err := m.validator.InstructorID("update", instructorID); err != nil {
		return err
	}
	return m.setInstructor(ctx, providerID, instructorID, details)
}

func (m *ProviderManager) setInstructor(ctx context.Context, providerID, instructorID string, details *models.Instructor) error {
	log := m.logger.With("providerid", providerID, "instructorid", instructorID)
	log.Info(ctx, "writing instructor", "instructor", details)

	set := []store.Assignment{{Path: []string{"instructors", instructorID}, Value: details}}
	log.Debug(ctx, "update", "table", m.records.table, "set", set)
	if err := m.records.store.Update(ctx, m.records.table, m.records.key(providerID), set); err != nil {
		log.Warn(ctx, "instructor write failed", "error", err)
		return err
	}

	log.Info(ctx, "instructor written")
	return nil
}
