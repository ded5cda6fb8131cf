// Package managers implements the provider and course operations on top of a
// store.Store. Every operation validates first and then makes at most one
// store round trip.
package managers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/astdirectory/internal/geo"
	"github.com/dmitrijs2005/astdirectory/internal/logging"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
	"github.com/dmitrijs2005/astdirectory/internal/server/validation"
)

// Option customises a manager.
type Option func(*options)

type options struct {
	logger    logging.Logger
	newID     func() string
	validator *validation.Validator
}

// WithLogger sets the logger. Defaults to logging.Nop.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIDGenerator replaces uuid.NewString for new record and instructor ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithValidator shares one validator between managers.
func WithValidator(v *validation.Validator) Option {
	return func(o *options) { o.validator = v }
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Nop{}, newID: uuid.NewString}
	for _, fn := range opts {
		fn(&o)
	}
	if o.validator == nil {
		o.validator = validation.New()
	}
	return o
}

// pipeline is the validate -> build -> store call -> decode sequence shared by
// both entities. D is the caller payload, R the persisted record.
type pipeline[D, R any] struct {
	store   store.Store
	table   string
	keyName string
	logger  logging.Logger

	validate func(action string, d *D) error
	build    func(id string, d *D) *R
	// geohash returns a pointer to the record's geohash and position fields.
	geohash func(r *R) (*string, **geo.Position)
}

func (p *pipeline[D, R]) key(id string) store.Key {
	return store.Key{Name: p.keyName, Value: id}
}

func (p *pipeline[D, R]) list(ctx context.Context) ([]R, error) {
	docs, err := p.store.Scan(ctx, p.table)
	if err != nil {
		return nil, err
	}
	return p.decodeAll(ctx, docs)
}

func (p *pipeline[D, R]) get(ctx context.Context, id string) ([]R, error) {
	docs, err := p.store.Query(ctx, p.table, p.key(id))
	if err != nil {
		return nil, err
	}
	return p.decodeAll(ctx, docs)
}

// put validates d, builds the record under id and writes it whole.
func (p *pipeline[D, R]) put(ctx context.Context, action, id string, d *D, cond store.Condition) (*R, error) {
	if err := p.validate(action, d); err != nil {
		return nil, err
	}

	rec := p.build(id, d)
	doc, err := store.ToDocument(rec)
	if err != nil {
		return nil, err
	}
	// pos is derived from geohash on read and never persisted
	delete(doc, "pos")

	p.logger.Debug(ctx, "put", "table", p.table, "key", id, "condition", cond, "item", doc)
	if err := p.store.Put(ctx, p.table, p.key(id), doc, cond); err != nil {
		return nil, err
	}

	p.locate(ctx, rec)
	return rec, nil
}

func (p *pipeline[D, R]) decodeAll(ctx context.Context, docs []store.Document) ([]R, error) {
	out := make([]R, 0, len(docs))
	for _, doc := range docs {
		var rec R
		if err := store.FromDocument(doc, &rec); err != nil {
			return nil, fmt.Errorf("%s: %w", p.table, err)
		}
		p.locate(ctx, &rec)
		out = append(out, rec)
	}
	return out, nil
}

// locate fills the position from the stored geohash. Records with a missing
// or corrupt geohash are returned without a position.
func (p *pipeline[D, R]) locate(ctx context.Context, rec *R) {
	hash, pos := p.geohash(rec)
	decoded, err := geo.Decode(*hash)
	if err != nil {
		p.logger.Warn(ctx, "cannot decode geohash", "table", p.table, "error", err)
		*pos = nil
		return
	}
	*pos = &decoded
}
