package models

import "github.com/diogovalentte/mangadex-talker/src/metadata"

// ProgressFunc is called after each page of search results with the
// number of items fetched so far and the capped total the server
// reported. When no callback is supplied, progress is logged instead.
type ProgressFunc func(itemsSoFar, totalCapped int)

// Talker is the interface for a metadata source
type Talker interface {
	// ID returns the talker id, used as the cache key prefix
	ID() string
	// Name returns the talker display name
	Name() string
	// SearchForSeries searches for series by name.
	// refreshCache bypasses the cache and fetches fresh data.
	// literal disables title sanitizing and the similarity-based
	// pagination early exit.
	SearchForSeries(seriesName string, progress ProgressFunc, refreshCache, literal bool, matchThreshold int) ([]*metadata.Series, error)
	// FetchSeries returns a single series by its id
	FetchSeries(seriesID string) (*metadata.Series, error)
	// FetchIssuesInSeries returns the metadata of all issues of a series
	FetchIssuesInSeries(seriesID string) ([]metadata.GenericMetadata, error)
	// FetchIssuesBySeriesIssueNumberAndYear returns the issues matching
	// an issue number across multiple series. The year is accepted for
	// interface compatibility but not used for filtering.
	FetchIssuesBySeriesIssueNumberAndYear(seriesIDs []string, issueNumber, year string) ([]metadata.GenericMetadata, error)
	// FetchComicData returns the metadata of a single issue, by issue id
	// or by series id plus issue number
	FetchComicData(issueID, seriesID, issueNumber string) (metadata.GenericMetadata, error)
	// Ping checks that the source API is reachable
	Ping() error
}
