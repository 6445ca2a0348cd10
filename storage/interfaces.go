package storage

import "zillow-wholesale/models"

// ListingWriter is the interface any export sink must satisfy. Write receives
// the analysed batch in its final order.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

// ListingReader is implemented by sinks that can return stored listings.
type ListingReader interface {
	FetchSession(sessionID string) ([]*models.Listing, error)
	FetchAll() ([]*models.Listing, error)
}
