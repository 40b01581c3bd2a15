package mangadex

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/diogovalentte/mangadex-talker/src/cache"
	"github.com/diogovalentte/mangadex-talker/src/errordefs"
	"github.com/diogovalentte/mangadex-talker/src/metadata"
	"github.com/diogovalentte/mangadex-talker/src/sources/models"
	"github.com/diogovalentte/mangadex-talker/src/titles"
	"github.com/diogovalentte/mangadex-talker/src/util"
)

// searchIncludes are the related entities requested with every series
// listing, so cached records carry credits and cover data.
var searchIncludes = []string{"cover_art", "artist", "author", "creator", "tag"}

// allContentRatings is used on cached endpoints: the full set is fetched
// and cached, filters are applied afterwards.
var allContentRatings = []string{"safe", "suggestive", "erotica", "pornographic"}

// SearchForSeries searches for series by name.
// Non-literal, non-refresh searches are answered from the cache when
// possible. Pagination stops at the server-reported total capped at 500
// results, or, for non-literal searches, as soon as any record on the
// current page scores below matchThreshold against the sanitized query.
func (t *Talker) SearchForSeries(seriesName string, progress models.ProgressFunc, refreshCache, literal bool, matchThreshold int) ([]*metadata.Series, error) {
	errorContext := "error while searching series"

	searchSeriesName := titles.Sanitize(seriesName, literal)
	t.client.logger.Info().Msgf("%s searching: %s", talkerName, searchSeriesName)

	// Look in the cache first, we might have done this same search
	// recently. Literal searches always retrieve from online.
	if !refreshCache && !literal {
		cachedResults, err := t.cache.GetSearchResults(t.ID(), seriesName)
		if err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}
		if len(cachedResults) > 0 {
			records := make([]seriesRecord, 0, len(cachedResults))
			for _, cached := range cachedResults {
				var record seriesRecord
				if err := json.Unmarshal(cached.Data, &record); err != nil {
					return nil, util.AddErrorContext(errorContext, err)
				}
				records = append(records, record)
			}

			return t.formatSearchResults(t.applyFilters(records)), nil
		}
	}

	params := url.Values{}
	params.Set("title", searchSeriesName)
	params.Set("limit", fmt.Sprint(pageLimit))
	params.Set("offset", "0")
	for _, include := range searchIncludes {
		params.Add("includes[]", include)
	}
	for _, rating := range allContentRatings {
		params.Add("contentRating[]", rating)
	}

	var searchAPIResp searchSeriesAPIResponse
	if err := t.client.getContent("/manga", params, &searchAPIResp); err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	searchResults := searchAPIResp.Data

	// Don't fetch more than a sane amount of pages
	totalResultCount := min(searchAPIResp.Total, maxSearchResults)

	if progress != nil {
		progress(len(searchResults), totalResultCount)
	} else {
		t.client.logger.Debug().Msgf("found %d of %d results", len(searchResults), totalResultCount)
	}

	offset := 0
	for len(searchResults) < totalResultCount {
		if !literal {
			// Stop searching once any entry on the current page falls
			// below the threshold
			stopSearching := false
			for _, record := range searchAPIResp.Data {
				if !titles.Match(searchSeriesName, record.Attributes.Title["en"], matchThreshold) {
					stopSearching = true
					break
				}
			}
			if stopSearching {
				break
			}
		}

		offset += pageLimit
		params.Set("offset", fmt.Sprint(offset))

		searchAPIResp = searchSeriesAPIResponse{}
		if err := t.client.getContent("/manga", params, &searchAPIResp); err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}

		searchResults = append(searchResults, searchAPIResp.Data...)

		if progress != nil {
			progress(len(searchResults), totalResultCount)
		} else {
			t.client.logger.Debug().Msgf("getting another page of results, %d of %d", len(searchResults), totalResultCount)
		}
	}

	// Cache the raw unfiltered set, keyed by the original query, so a
	// later search with different filter settings still gets a hit
	cachedResults := make([]cache.Series, 0, len(searchResults))
	for _, record := range searchResults {
		data, err := json.Marshal(record)
		if err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}
		cachedResults = append(cachedResults, cache.Series{ID: record.ID, Data: data})
	}
	if err := t.cache.AddSearchResults(t.ID(), seriesName, cachedResults); err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	return t.formatSearchResults(t.applyFilters(searchResults)), nil
}

// FetchSeries returns a single series by its id, formatted the same way
// as search results
func (t *Talker) FetchSeries(seriesID string) (*metadata.Series, error) {
	record, err := t.fetchSeries(seriesID)
	if err != nil {
		return nil, err
	}

	return t.formatSeries(record), nil
}

// fetchSeries cache-or-fetches the raw record of a series
func (t *Talker) fetchSeries(seriesID string) (*seriesRecord, error) {
	errorContext := "error while fetching series"

	cached, err := t.cache.GetSeriesInfo(t.ID(), seriesID)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	if cached != nil {
		var record seriesRecord
		if err := json.Unmarshal(cached.Data, &record); err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}
		return &record, nil
	}

	// Include credits for use when tagging an issue
	params := url.Values{}
	for _, include := range searchIncludes {
		params.Add("includes[]", include)
	}

	var seriesAPIResp getSeriesAPIResponse
	if err := t.client.getContent("/manga/"+seriesID, params, &seriesAPIResp); err != nil {
		if util.ErrorContains(err, "non-200 status code -> (404)") {
			return nil, util.AddErrorContext(errorContext, errordefs.ErrSeriesNotFound)
		}
		return nil, util.AddErrorContext(errorContext, err)
	}

	data, err := json.Marshal(seriesAPIResp.Data)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	if err := t.cache.AddSeriesInfo(t.ID(), cache.Series{ID: seriesAPIResp.Data.ID, Data: data}); err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	record := seriesAPIResp.Data

	return &record, nil
}

// applyFilters applies the adult content and doujin filters to raw
// series records. It's used on both fresh and cached data, so cached
// results honor the current settings.
func (t *Talker) applyFilters(records []seriesRecord) []seriesRecord {
	if !t.configs.AdultContent {
		records = filterAdult(records)
	}
	if t.configs.ExcludeDoujin {
		records = filterDoujin(records)
	}

	return records
}

// filterAdult excludes series rated erotica/pornographic and series
// carrying any "content" group tag (content warnings, e.g. gore)
func filterAdult(records []seriesRecord) []seriesRecord {
	filtered := make([]seriesRecord, 0, len(records))
	for _, record := range records {
		if record.Attributes.ContentRating == "erotica" || record.Attributes.ContentRating == "pornographic" {
			continue
		}

		hasContentTag := false
		for _, recordTag := range record.Attributes.Tags {
			if recordTag.Attributes.Group == "content" {
				hasContentTag = true
				break
			}
		}
		if hasContentTag {
			continue
		}

		filtered = append(filtered, record)
	}

	return filtered
}

// filterDoujin excludes series with a genre or format tag named
// "Doujinshi"
func filterDoujin(records []seriesRecord) []seriesRecord {
	filtered := make([]seriesRecord, 0, len(records))
	for _, record := range records {
		isDoujin := false
		for _, recordTag := range record.Attributes.Tags {
			if (recordTag.Attributes.Group == "genre" || recordTag.Attributes.Group == "format") &&
				recordTag.Attributes.Name["en"] == "Doujinshi" {
				isDoujin = true
				break
			}
		}
		if isDoujin {
			continue
		}

		filtered = append(filtered, record)
	}

	return filtered
}

func (t *Talker) formatSearchResults(records []seriesRecord) []*metadata.Series {
	formattedResults := make([]*metadata.Series, 0, len(records))
	for _, record := range records {
		formattedResults = append(formattedResults, t.formatSeries(&record))
	}

	return formattedResults
}

// formatSeries maps a raw series record into the host's series shape
func (t *Talker) formatSeries(record *seriesRecord) *metadata.Series {
	attributes := &record.Attributes

	series := &metadata.Series{
		ID:   record.ID,
		Name: attributes.Title.get(),
		// The publisher can only be gleaned from chapter information
		Publisher:   "",
		Description: attributes.Description["en"],
	}

	seen := make(map[string]bool)
	for _, alias := range attributes.AltTitles {
		for _, title := range alias {
			if !seen[title] {
				seen[title] = true
				series.Aliases = append(series.Aliases, title)
			}
		}
	}

	if count, ok := util.XlateInt(attributes.LastChapter); ok {
		series.CountOfIssues = &count
	}
	if count, ok := util.XlateInt(attributes.LastVolume); ok {
		series.CountOfVolumes = &count
	}
	if attributes.Year != 0 {
		year := attributes.Year
		series.StartYear = &year
	}

	for _, recordTag := range attributes.Tags {
		if recordTag.Attributes.Group == "format" {
			series.Format = recordTag.Attributes.Name["en"]
		}
	}

	for _, rel := range record.Relationships {
		if rel.Type == "cover_art" {
			series.ImageURL = fmt.Sprintf("%s/covers/%s/%s", baseUploadsURL, record.ID, rel.fileName())
		}
	}

	return series
}
