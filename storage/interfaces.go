package storage

import "github.com/Jrgenl/boliganalyseverktoy/models"

// ListingStore is the load/save collaborator keyed by listing id.
type ListingStore interface {
	Save(l *models.Listing) error
	Load(id string) (*models.Listing, error)
	LoadAll() ([]*models.Listing, error)
}

// ListingWriter is the interface any bulk storage backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

// ListingFetcher is the read side of a bulk storage backend, used to source
// comparison pools.
type ListingFetcher interface {
	FetchAll() ([]*models.Listing, error)
}
