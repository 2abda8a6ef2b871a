package storage

import "github.com/ItsCxdy/google-maps-scraper/models"

// PlaceWriter is the interface any output backend must satisfy.
type PlaceWriter interface {
	Write(places []*models.Place) error
	Close() error
}
