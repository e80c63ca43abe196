package documents

import (
	"errors"
	"time"
)

var ErrDocumentNotFound = errors.New("document not found")

// Known document type tags. Subscription interests match against these.
const (
	TypeLicences     = "Licences"
	TypeArretes      = "Arretes"
	TypeRapports     = "Rapports"
	TypeCirculaires  = "Circulaires"
	TypeStatistiques = "Statistiques"
)

var validTypes = map[string]struct{}{
	TypeLicences:     {},
	TypeArretes:      {},
	TypeRapports:     {},
	TypeCirculaires:  {},
	TypeStatistiques: {},
}

func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}

type Document struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Reference   string    `json:"reference"`
	Type        string    `json:"type"`
	Summary     *string   `json:"summary,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	PublishedBy int64     `json:"published_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Filter struct {
	Type  *string
	Page  int
	Limit int
}
