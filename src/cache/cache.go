// Package cache implements the local cache the talkers write fetched
// records into, so repeated lookups don't hit the catalog API again.
// Records are stored as the raw API JSON, keyed by talker id plus the
// query or record id.
package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/diogovalentte/mangadex-talker/src/util"
)

// Series is a cached raw series record
type Series struct {
	ID   string
	Data []byte
}

// Issue is a cached raw issue record
type Issue struct {
	ID       string
	SeriesID string
	Data     []byte
}

// Cacher is the interface the talkers consume. Implementations only need
// to be safe for sequential use from one caller.
type Cacher interface {
	// AddSearchResults replaces the cached results for a query
	AddSearchResults(talkerID, query string, results []Series) error
	// GetSearchResults returns the cached results for a query, in the
	// order they were stored. An empty slice means a cache miss.
	GetSearchResults(talkerID, query string) ([]Series, error)
	// AddSeriesInfo upserts a single series record
	AddSeriesInfo(talkerID string, series Series) error
	// GetSeriesInfo returns a cached series record, or nil on a miss
	GetSeriesInfo(talkerID, seriesID string) (*Series, error)
	// AddIssuesInfo upserts issue records
	AddIssuesInfo(talkerID string, issues []Issue) error
	// GetSeriesIssues returns all cached issues of a series
	GetSeriesIssues(talkerID, seriesID string) ([]Issue, error)
	// GetIssueInfo returns a cached issue record, or nil on a miss
	GetIssueInfo(talkerID, issueID string) (*Issue, error)
}

// ComicCache is the SQLite implementation of Cacher
type ComicCache struct {
	db *sql.DB
}

// OpenConn opens a connection to the cache database and creates the
// tables if needed. Use ":memory:" for an in-memory cache.
func OpenConn(path string) (*ComicCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, util.AddErrorContext("error opening cache database connection", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, util.AddErrorContext(fmt.Sprintf("error pinging cache database '%s'", path), err)
	}

	cache := &ComicCache{db: db}
	if err := cache.createTables(); err != nil {
		return nil, err
	}

	return cache, nil
}

// Close closes the cache database connection
func (c *ComicCache) Close() error {
	return c.db.Close()
}

func (c *ComicCache) createTables() error {
	tx, err := c.db.Begin()
	if err != nil {
		return util.AddErrorContext("error starting transaction to create cache tables", err)
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS "search_results" (
          "talker_id" TEXT NOT NULL,
          "query" TEXT NOT NULL,
          "position" INTEGER NOT NULL,
          "series_id" TEXT NOT NULL,
          "data" BLOB NOT NULL,
          PRIMARY KEY ("talker_id", "query", "position")
        );
    `)
	if err != nil {
		tx.Rollback()
		return util.AddErrorContext("error creating search_results table", err)
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS "series" (
          "talker_id" TEXT NOT NULL,
          "id" TEXT NOT NULL,
          "data" BLOB NOT NULL,
          PRIMARY KEY ("talker_id", "id")
        );
    `)
	if err != nil {
		tx.Rollback()
		return util.AddErrorContext("error creating series table", err)
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS "issues" (
          "talker_id" TEXT NOT NULL,
          "id" TEXT NOT NULL,
          "series_id" TEXT NOT NULL,
          "data" BLOB NOT NULL,
          PRIMARY KEY ("talker_id", "id")
        );
    `)
	if err != nil {
		tx.Rollback()
		return util.AddErrorContext("error creating issues table", err)
	}

	return tx.Commit()
}

// AddSearchResults replaces the cached results for a query
func (c *ComicCache) AddSearchResults(talkerID, query string, results []Series) error {
	contextError := fmt.Sprintf("error caching search results for query '%s'", query)

	tx, err := c.db.Begin()
	if err != nil {
		return util.AddErrorContext(contextError, err)
	}

	_, err = tx.Exec(`DELETE FROM "search_results" WHERE talker_id = ? AND query = ?;`, talkerID, query)
	if err != nil {
		tx.Rollback()
		return util.AddErrorContext(contextError, err)
	}

	for position, result := range results {
		_, err = tx.Exec(`
            INSERT INTO "search_results" (talker_id, query, position, series_id, data)
            VALUES (?, ?, ?, ?, ?);
        `, talkerID, query, position, result.ID, result.Data)
		if err != nil {
			tx.Rollback()
			return util.AddErrorContext(contextError, err)
		}
	}

	return tx.Commit()
}

// GetSearchResults returns the cached results for a query
func (c *ComicCache) GetSearchResults(talkerID, query string) ([]Series, error) {
	contextError := fmt.Sprintf("error getting cached search results for query '%s'", query)

	rows, err := c.db.Query(`
        SELECT series_id, data FROM "search_results"
        WHERE talker_id = ? AND query = ?
        ORDER BY position;
    `, talkerID, query)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}
	defer rows.Close()

	var results []Series
	for rows.Next() {
		var result Series
		if err := rows.Scan(&result.ID, &result.Data); err != nil {
			return nil, util.AddErrorContext(contextError, err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// AddSeriesInfo upserts a single series record
func (c *ComicCache) AddSeriesInfo(talkerID string, series Series) error {
	_, err := c.db.Exec(`
        INSERT INTO "series" (talker_id, id, data)
        VALUES (?, ?, ?)
        ON CONFLICT (talker_id, id) DO UPDATE SET data = excluded.data;
    `, talkerID, series.ID, series.Data)
	if err != nil {
		return util.AddErrorContext(fmt.Sprintf("error caching series '%s'", series.ID), err)
	}

	return nil
}

// GetSeriesInfo returns a cached series record, or nil on a miss
func (c *ComicCache) GetSeriesInfo(talkerID, seriesID string) (*Series, error) {
	var series Series
	err := c.db.QueryRow(`
        SELECT id, data FROM "series" WHERE talker_id = ? AND id = ?;
    `, talkerID, seriesID).Scan(&series.ID, &series.Data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, util.AddErrorContext(fmt.Sprintf("error getting cached series '%s'", seriesID), err)
	}

	return &series, nil
}

// AddIssuesInfo upserts issue records
func (c *ComicCache) AddIssuesInfo(talkerID string, issues []Issue) error {
	contextError := "error caching issues"

	tx, err := c.db.Begin()
	if err != nil {
		return util.AddErrorContext(contextError, err)
	}

	for _, issue := range issues {
		_, err = tx.Exec(`
            INSERT INTO "issues" (talker_id, id, series_id, data)
            VALUES (?, ?, ?, ?)
            ON CONFLICT (talker_id, id) DO UPDATE SET series_id = excluded.series_id, data = excluded.data;
        `, talkerID, issue.ID, issue.SeriesID, issue.Data)
		if err != nil {
			tx.Rollback()
			return util.AddErrorContext(contextError, err)
		}
	}

	return tx.Commit()
}

// GetSeriesIssues returns all cached issues of a series
func (c *ComicCache) GetSeriesIssues(talkerID, seriesID string) ([]Issue, error) {
	contextError := fmt.Sprintf("error getting cached issues of series '%s'", seriesID)

	rows, err := c.db.Query(`
        SELECT id, series_id, data FROM "issues"
        WHERE talker_id = ? AND series_id = ?
        ORDER BY rowid;
    `, talkerID, seriesID)
	if err != nil {
		return nil, util.AddErrorContext(contextError, err)
	}
	defer rows.Close()

	var issues []Issue
	for rows.Next() {
		var issue Issue
		if err := rows.Scan(&issue.ID, &issue.SeriesID, &issue.Data); err != nil {
			return nil, util.AddErrorContext(contextError, err)
		}
		issues = append(issues, issue)
	}

	return issues, rows.Err()
}

// GetIssueInfo returns a cached issue record, or nil on a miss
func (c *ComicCache) GetIssueInfo(talkerID, issueID string) (*Issue, error) {
	var issue Issue
	err := c.db.QueryRow(`
        SELECT id, series_id, data FROM "issues" WHERE talker_id = ? AND id = ?;
    `, talkerID, issueID).Scan(&issue.ID, &issue.SeriesID, &issue.Data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, util.AddErrorContext(fmt.Sprintf("error getting cached issue '%s'", issueID), err)
	}

	return &issue, nil
}
