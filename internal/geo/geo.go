// Package geo converts coordinate pairs to and from geohash strings.
//
// Encoding is lossy: a geohash names a rectangular cell, and decoding returns
// the centre of that cell rather than the original point.
package geo

import (
	"fmt"

	"github.com/mmcloughlin/geohash"

	"github.com/dmitrijs2005/astdirectory/internal/common"
)

// DefaultPrecision is the number of base-32 characters produced by Encode.
const DefaultPrecision uint = 9

// Position is a latitude/longitude pair in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// Encode returns the geohash of p at DefaultPrecision.
func Encode(p Position) string {
	return EncodeWithPrecision(p, DefaultPrecision)
}

// EncodeWithPrecision returns the geohash of p with the given number of characters.
func EncodeWithPrecision(p Position, chars uint) string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, chars)
}

// Decode returns the centre of the cell named by hash.
func Decode(hash string) (Position, error) {
	if err := validate(hash); err != nil {
		return Position{}, err
	}
	lat, lng := geohash.DecodeCenter(hash)
	return Position{Latitude: lat, Longitude: lng}, nil
}

// Cell returns the bounding box of the cell named by hash.
func Cell(hash string) (geohash.Box, error) {
	if err := validate(hash); err != nil {
		return geohash.Box{}, err
	}
	return geohash.BoundingBox(hash), nil
}

// validate rejects the empty string, which geohash.Validate accepts.
func validate(hash string) error {
	if hash == "" {
		return fmt.Errorf("%w: empty", common.ErrorInvalidGeohash)
	}
	if err := geohash.Validate(hash); err != nil {
		return fmt.Errorf("%w: %q: %v", common.ErrorInvalidGeohash, hash, err)
	}
	return nil
}
