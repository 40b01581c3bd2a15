package cache

import (
	"testing"
)

func newTestCache(t *testing.T) *ComicCache {
	t.Helper()

	comicCache, err := OpenConn(":memory:")
	if err != nil {
		t.Fatalf("error while opening cache: %v", err)
	}
	t.Cleanup(func() { comicCache.Close() })

	return comicCache
}

func TestSearchResults(t *testing.T) {
	t.Run("Should return cached search results in the stored order", func(t *testing.T) {
		comicCache := newTestCache(t)

		stored := []Series{
			{ID: "id-3", Data: []byte(`{"id":"id-3"}`)},
			{ID: "id-1", Data: []byte(`{"id":"id-1"}`)},
			{ID: "id-2", Data: []byte(`{"id":"id-2"}`)},
		}
		if err := comicCache.AddSearchResults("mangadex", "bleach", stored); err != nil {
			t.Fatalf("error while caching search results: %v", err)
		}

		results, err := comicCache.GetSearchResults("mangadex", "bleach")
		if err != nil {
			t.Fatalf("error while getting cached search results: %v", err)
		}

		if len(results) != len(stored) {
			t.Fatalf("expected %d results, got %d", len(stored), len(results))
		}
		for i := range stored {
			if results[i].ID != stored[i].ID {
				t.Fatalf("expected result '%s' at position %d, got '%s'", stored[i].ID, i, results[i].ID)
			}
			if string(results[i].Data) != string(stored[i].Data) {
				t.Fatalf("expected data '%s', got '%s'", stored[i].Data, results[i].Data)
			}
		}
	})
	t.Run("Should replace the cached results of a query", func(t *testing.T) {
		comicCache := newTestCache(t)

		first := []Series{
			{ID: "id-1", Data: []byte(`{}`)},
			{ID: "id-2", Data: []byte(`{}`)},
		}
		if err := comicCache.AddSearchResults("mangadex", "bleach", first); err != nil {
			t.Fatalf("error while caching search results: %v", err)
		}

		second := []Series{{ID: "id-9", Data: []byte(`{}`)}}
		if err := comicCache.AddSearchResults("mangadex", "bleach", second); err != nil {
			t.Fatalf("error while replacing search results: %v", err)
		}

		results, err := comicCache.GetSearchResults("mangadex", "bleach")
		if err != nil {
			t.Fatalf("error while getting cached search results: %v", err)
		}
		if len(results) != 1 || results[0].ID != "id-9" {
			t.Fatalf("expected only the replacement result, got %v", results)
		}
	})
	t.Run("Should miss on an unknown query and a different talker", func(t *testing.T) {
		comicCache := newTestCache(t)

		if err := comicCache.AddSearchResults("mangadex", "bleach", []Series{{ID: "id-1", Data: []byte(`{}`)}}); err != nil {
			t.Fatalf("error while caching search results: %v", err)
		}

		results, err := comicCache.GetSearchResults("mangadex", "naruto")
		if err != nil {
			t.Fatalf("error while getting cached search results: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("expected a miss for an unknown query, got %v", results)
		}

		results, err = comicCache.GetSearchResults("other", "bleach")
		if err != nil {
			t.Fatalf("error while getting cached search results: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("expected a miss for a different talker, got %v", results)
		}
	})
}

func TestSeriesInfo(t *testing.T) {
	t.Run("Should upsert and return a series record", func(t *testing.T) {
		comicCache := newTestCache(t)

		if err := comicCache.AddSeriesInfo("mangadex", Series{ID: "series-1", Data: []byte(`{"v":1}`)}); err != nil {
			t.Fatalf("error while caching series: %v", err)
		}
		if err := comicCache.AddSeriesInfo("mangadex", Series{ID: "series-1", Data: []byte(`{"v":2}`)}); err != nil {
			t.Fatalf("error while updating cached series: %v", err)
		}

		series, err := comicCache.GetSeriesInfo("mangadex", "series-1")
		if err != nil {
			t.Fatalf("error while getting cached series: %v", err)
		}
		if series == nil {
			t.Fatalf("expected a cached series, got nil")
		}
		if string(series.Data) != `{"v":2}` {
			t.Fatalf("expected the updated data, got '%s'", series.Data)
		}
	})
	t.Run("Should return nil on a miss", func(t *testing.T) {
		comicCache := newTestCache(t)

		series, err := comicCache.GetSeriesInfo("mangadex", "series-1")
		if err != nil {
			t.Fatalf("error while getting cached series: %v", err)
		}
		if series != nil {
			t.Fatalf("expected nil on a miss, got %v", series)
		}
	})
}

func TestIssuesInfo(t *testing.T) {
	t.Run("Should return the cached issues of a series", func(t *testing.T) {
		comicCache := newTestCache(t)

		issues := []Issue{
			{ID: "ch-1", SeriesID: "series-1", Data: []byte(`{"id":"ch-1"}`)},
			{ID: "ch-2", SeriesID: "series-1", Data: []byte(`{"id":"ch-2"}`)},
			{ID: "ch-3", SeriesID: "series-2", Data: []byte(`{"id":"ch-3"}`)},
		}
		if err := comicCache.AddIssuesInfo("mangadex", issues); err != nil {
			t.Fatalf("error while caching issues: %v", err)
		}

		seriesIssues, err := comicCache.GetSeriesIssues("mangadex", "series-1")
		if err != nil {
			t.Fatalf("error while getting cached issues: %v", err)
		}
		if len(seriesIssues) != 2 {
			t.Fatalf("expected 2 issues for series-1, got %d", len(seriesIssues))
		}
		if seriesIssues[0].ID != "ch-1" || seriesIssues[1].ID != "ch-2" {
			t.Fatalf("expected issues in the stored order, got %v", seriesIssues)
		}
	})
	t.Run("Should return a single issue by its id", func(t *testing.T) {
		comicCache := newTestCache(t)

		if err := comicCache.AddIssuesInfo("mangadex", []Issue{{ID: "ch-1", SeriesID: "series-1", Data: []byte(`{"v":1}`)}}); err != nil {
			t.Fatalf("error while caching issue: %v", err)
		}

		issue, err := comicCache.GetIssueInfo("mangadex", "ch-1")
		if err != nil {
			t.Fatalf("error while getting cached issue: %v", err)
		}
		if issue == nil {
			t.Fatalf("expected a cached issue, got nil")
		}
		if issue.SeriesID != "series-1" || string(issue.Data) != `{"v":1}` {
			t.Fatalf("expected the cached issue record, got %v", issue)
		}
	})
	t.Run("Should upsert an issue record", func(t *testing.T) {
		comicCache := newTestCache(t)

		if err := comicCache.AddIssuesInfo("mangadex", []Issue{{ID: "ch-1", SeriesID: "series-1", Data: []byte(`{"v":1}`)}}); err != nil {
			t.Fatalf("error while caching issue: %v", err)
		}
		if err := comicCache.AddIssuesInfo("mangadex", []Issue{{ID: "ch-1", SeriesID: "series-2", Data: []byte(`{"v":2}`)}}); err != nil {
			t.Fatalf("error while updating cached issue: %v", err)
		}

		issue, err := comicCache.GetIssueInfo("mangadex", "ch-1")
		if err != nil {
			t.Fatalf("error while getting cached issue: %v", err)
		}
		if issue.SeriesID != "series-2" || string(issue.Data) != `{"v":2}` {
			t.Fatalf("expected the updated issue record, got %v", issue)
		}
	})
	t.Run("Should return nil on a miss", func(t *testing.T) {
		comicCache := newTestCache(t)

		issue, err := comicCache.GetIssueInfo("mangadex", "ch-404")
		if err != nil {
			t.Fatalf("error while getting cached issue: %v", err)
		}
		if issue != nil {
			t.Fatalf("expected nil on a miss, got %v", issue)
		}
	})
}
