package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/speps/go-hashids/v2"
)

var typePrefixes = map[string]string{
	TypeLicences:     "LIC",
	TypeArretes:      "ARR",
	TypeRapports:     "RAP",
	TypeCirculaires:  "CIR",
	TypeStatistiques: "STA",
}

// ReferenceGenerator mints short public reference numbers like ARR-8FK2Q.
// Hashids keeps them non-sequential without a second DB roundtrip.
type ReferenceGenerator struct {
	h   *hashids.HashID
	now func() time.Time
}

func NewReferenceGenerator(salt string) (*ReferenceGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 5
	hd.Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}

	return &ReferenceGenerator{h: h, now: time.Now}, nil
}

func (g *ReferenceGenerator) Generate(docType string, publisherID int64) (string, error) {
	prefix, ok := typePrefixes[docType]
	if !ok {
		return "", fmt.Errorf("no reference prefix for document type %q", docType)
	}

	code, err := g.h.EncodeInt64([]int64{g.now().UnixMilli(), publisherID})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(code)), nil
}
