// Package mangadex provides the implementation of the models.Talker interface for the MangaDex source.
// API doc: https://api.mangadex.org/docs/
// Some major series will be missing issue information.
package mangadex

import (
	"golang.org/x/time/rate"

	"github.com/diogovalentte/mangadex-talker/src/cache"
	"github.com/diogovalentte/mangadex-talker/src/config"
)

var (
	baseSiteURL    = "https://mangadex.org"
	defaultAPIURL  = "https://api.mangadex.org"
	baseUploadsURL = "https://uploads.mangadex.org"
)

const (
	talkerID   = "mangadex"
	talkerName = "MangaDex"

	// pageLimit is the page size of every list endpoint
	pageLimit = 100
	// maxSearchResults caps search pagination at 5 pages
	maxSearchResults = 500
)

// Talker is the implementation of the models.Talker interface for the MangaDex source
type Talker struct {
	client  *Client
	cache   cache.Cacher
	configs *config.MangaDexConfigs
}

// New creates a MangaDex talker. The limiter is shared by every request
// the talker makes; pass nil to get the API's documented limit of 5
// requests per second. The cacher may not be nil.
func New(configs *config.MangaDexConfigs, cacher cache.Cacher, limiter *rate.Limiter) *Talker {
	if limiter == nil {
		limiter = rate.NewLimiter(5, 5)
	}

	apiURL := configs.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Talker{
		client:  newClient(apiURL, limiter),
		cache:   cacher,
		configs: configs,
	}
}

// ID returns the talker id, used as the cache key prefix
func (t *Talker) ID() string {
	return talkerID
}

// Name returns the talker display name
func (t *Talker) Name() string {
	return talkerName
}

// Ping checks that the API is reachable
func (t *Talker) Ping() error {
	return t.client.Ping()
}
