// Package searchcache fingerprints search requests and stores their raw
// results under a TTL. Entries hold unscored items only: relevance is
// user-specific and recomputed on every read.
package searchcache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/sjlee-dev/newsdesk/internal/domain"
)

// Params identifies one search request for caching purposes.
type Params struct {
	Query     string
	Country   string
	Language  string
	DateRange string
	Start     int
}

// canonicalKey is the normalized tuple that gets hashed. Field order is fixed
// by the struct so identical params always serialize identically.
type canonicalKey struct {
	Q string `json:"q"`
	C string `json:"c"`
	L string `json:"l"`
	D string `json:"d"`
	S int    `json:"s"`
}

// BuildKey returns the deterministic fingerprint of a search request:
// SHA-1 over the canonical JSON of the normalized parameters.
func BuildKey(p Params) string {
	n := normalize(p)
	b, _ := json.Marshal(canonicalKey{
		Q: n.Query,
		C: n.Country,
		L: n.Language,
		D: n.DateRange,
		S: n.Start,
	})
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

func normalize(p Params) Params {
	p.Query = strings.ToLower(strings.TrimSpace(p.Query))
	if p.Country == "" {
		p.Country = domain.DefaultCountry
	}
	if p.DateRange == "" {
		p.DateRange = domain.DefaultDateRange
	}
	if p.Start == 0 {
		p.Start = domain.DefaultStart
	}
	return p
}
