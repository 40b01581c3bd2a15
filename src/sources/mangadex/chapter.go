package mangadex

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/diogovalentte/mangadex-talker/src/cache"
	"github.com/diogovalentte/mangadex-talker/src/errordefs"
	"github.com/diogovalentte/mangadex-talker/src/metadata"
	"github.com/diogovalentte/mangadex-talker/src/util"
)

// FetchComicData returns the metadata of a single issue. It dispatches
// to a lookup by issue id when one is given, else to a lookup by series
// id and issue number when both are given, else returns empty metadata.
func (t *Talker) FetchComicData(issueID, seriesID, issueNumber string) (metadata.GenericMetadata, error) {
	if issueID != "" {
		return t.fetchIssueDataByIssueID(issueID)
	}
	if seriesID != "" && issueNumber != "" {
		return t.fetchIssueData(seriesID, issueNumber)
	}

	return metadata.New(), nil
}

// FetchIssuesInSeries returns the metadata of all issues of a series,
// restricted to English translations. The deduplicated, cover-injected
// chapter set is cached; a cached set is considered authoritative.
func (t *Talker) FetchIssuesInSeries(seriesID string) ([]metadata.GenericMetadata, error) {
	errorContext := "error while fetching issues in series"

	series, err := t.fetchSeries(seriesID)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	cachedIssues, err := t.cache.GetSeriesIssues(t.ID(), seriesID)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}
	if len(cachedIssues) > 0 {
		formatted := make([]metadata.GenericMetadata, 0, len(cachedIssues))
		for _, cached := range cachedIssues {
			var chapter chapterRecord
			if err := json.Unmarshal(cached.Data, &chapter); err != nil {
				return nil, util.AddErrorContext(errorContext, err)
			}
			formatted = append(formatted, t.mapChapterToMetadata(&chapter, series))
		}
		return formatted, nil
	}

	// The scanlation group include is taken for the publisher when the
	// group is official. All content ratings are fetched so the cache
	// holds the full set; filters apply elsewhere.
	params := url.Values{}
	params.Set("limit", fmt.Sprint(pageLimit))
	params.Set("offset", "0")
	params.Add("includes[]", "scanlation_group")
	// TODO support languages other than English
	params.Add("translatedLanguage[]", "en")
	for _, rating := range allContentRatings {
		params.Add("contentRating[]", rating)
	}

	feedPath := fmt.Sprintf("/manga/%s/feed", seriesID)
	chapters, err := t.paginateChapters(feedPath, params)
	if err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	chapters = dedupeChapters(chapters)

	if t.configs.VolumeCoverMatching || t.configs.VolumeCoverWindow {
		if err := t.injectVolumeCovers(seriesID, chapters); err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}
	}

	cachedSet := make([]cache.Issue, 0, len(chapters))
	for _, chapter := range chapters {
		data, err := json.Marshal(chapter)
		if err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}
		cachedSet = append(cachedSet, cache.Issue{ID: chapter.ID, SeriesID: seriesID, Data: data})
	}
	if err := t.cache.AddIssuesInfo(t.ID(), cachedSet); err != nil {
		return nil, util.AddErrorContext(errorContext, err)
	}

	formatted := make([]metadata.GenericMetadata, 0, len(chapters))
	for i := range chapters {
		formatted = append(formatted, t.mapChapterToMetadata(&chapters[i], series))
	}

	return formatted, nil
}

// FetchIssuesBySeriesIssueNumberAndYear returns the issues matching an
// issue number across multiple series. Results are not cached: the
// queries are narrow and cheap. The year is accepted but not used,
// upstream publish timestamps track scanlation uploads and are
// unreliable for year filtering.
func (t *Talker) FetchIssuesBySeriesIssueNumberAndYear(seriesIDs []string, issueNumber, year string) ([]metadata.GenericMetadata, error) {
	errorContext := "error while fetching issues by series and issue number"

	if year != "" {
		t.client.logger.Debug().Msgf("ignoring year '%s', publish dates are unreliable for filtering", year)
	}

	// Not cached, so the filtering can happen on the API side
	contentRatings := []string{"safe", "suggestive"}
	if t.configs.AdultContent {
		contentRatings = append(contentRatings, "erotica", "pornographic")
	}

	var issues []metadata.GenericMetadata
	for _, seriesID := range seriesIDs {
		params := url.Values{}
		params.Set("manga", seriesID)
		params.Set("chapter", issueNumber)
		params.Set("limit", fmt.Sprint(pageLimit))
		params.Set("offset", "0")
		params.Add("includes[]", "scanlation_group")
		params.Add("translatedLanguage[]", "en")
		for _, rating := range contentRatings {
			params.Add("contentRating[]", rating)
		}

		chapters, err := t.paginateChapters("/chapter", params)
		if err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}

		series, err := t.fetchSeries(seriesID)
		if err != nil {
			return nil, util.AddErrorContext(errorContext, err)
		}

		chapters = dedupeChapters(chapters)

		if t.configs.VolumeCoverMatching || t.configs.VolumeCoverWindow {
			if err := t.injectVolumeCovers(seriesID, chapters); err != nil {
				return nil, util.AddErrorContext(errorContext, err)
			}
		}

		for i := range chapters {
			issues = append(issues, t.mapChapterToMetadata(&chapters[i], series))
		}
	}

	return issues, nil
}

// paginateChapters requests a chapter listing endpoint until the
// server-reported total is reached. There is no early-exit heuristic
// here, unlike search.
func (t *Talker) paginateChapters(path string, params url.Values) ([]chapterRecord, error) {
	var listAPIResp chapterListAPIResponse
	if err := t.client.getContent(path, params, &listAPIResp); err != nil {
		return nil, err
	}

	chapters := listAPIResp.Data
	totalResultCount := listAPIResp.Total

	offset := 0
	for len(chapters) < totalResultCount {
		offset += pageLimit
		params.Set("offset", fmt.Sprint(offset))

		listAPIResp = chapterListAPIResponse{}
		if err := t.client.getContent(path, params, &listAPIResp); err != nil {
			return nil, err
		}
		if len(listAPIResp.Data) == 0 {
			break
		}

		chapters = append(chapters, listAPIResp.Data...)
	}

	return chapters, nil
}

// fetchIssueData resolves a series id and issue number to an issue id,
// then fetches by issue id. Issue numbers are presumed to be chapter
// numbers.
func (t *Talker) fetchIssueData(seriesID, issueNumber string) (metadata.GenericMetadata, error) {
	errorContext := "error while fetching issue by series and issue number"

	params := url.Values{}
	params.Set("manga", seriesID)
	params.Set("chapter", issueNumber)

	var listAPIResp chapterListAPIResponse
	if err := t.client.getContent("/chapter", params, &listAPIResp); err != nil {
		return metadata.New(), util.AddErrorContext(errorContext, err)
	}

	if len(listAPIResp.Data) == 0 {
		return metadata.New(), nil
	}

	return t.fetchIssueDataByIssueID(listAPIResp.Data[0].ID)
}

// fetchIssueDataByIssueID returns the metadata of a single issue by its
// id, from the cache when possible
func (t *Talker) fetchIssueDataByIssueID(issueID string) (metadata.GenericMetadata, error) {
	errorContext := "error while fetching issue by id"

	cached, err := t.cache.GetIssueInfo(t.ID(), issueID)
	if err != nil {
		return metadata.New(), util.AddErrorContext(errorContext, err)
	}
	if cached != nil {
		var chapter chapterRecord
		if err := json.Unmarshal(cached.Data, &chapter); err != nil {
			return metadata.New(), util.AddErrorContext(errorContext, err)
		}
		series, err := t.fetchSeries(cached.SeriesID)
		if err != nil {
			return metadata.New(), util.AddErrorContext(errorContext, err)
		}
		return t.mapChapterToMetadata(&chapter, series), nil
	}

	params := url.Values{}
	params.Add("includes[]", "scanlation_group")

	var chapterAPIResp getChapterAPIResponse
	if err := t.client.getContent("/chapter/"+issueID, params, &chapterAPIResp); err != nil {
		if util.ErrorContains(err, "non-200 status code -> (404)") {
			return metadata.New(), util.AddErrorContext(errorContext, errordefs.ErrIssueNotFound)
		}
		return metadata.New(), util.AddErrorContext(errorContext, err)
	}

	chapter := chapterAPIResp.Data

	var seriesID string
	for _, rel := range chapter.Relationships {
		if rel.Type == "manga" {
			seriesID = rel.ID
		}
	}

	series, err := t.fetchSeries(seriesID)
	if err != nil {
		return metadata.New(), util.AddErrorContext(errorContext, err)
	}

	data, err := json.Marshal(chapter)
	if err != nil {
		return metadata.New(), util.AddErrorContext(errorContext, err)
	}
	err = t.cache.AddIssuesInfo(t.ID(), []cache.Issue{{ID: chapter.ID, SeriesID: seriesID, Data: data}})
	if err != nil {
		return metadata.New(), util.AddErrorContext(errorContext, err)
	}

	return t.mapChapterToMetadata(&chapter, series), nil
}

// dedupeChapters collapses duplicate scanlation uploads of the same
// chapter. Chapters are grouped by the chapter number string (including
// the empty string); within a group an official release wins, otherwise
// the last record encountered wins. Exactly one record per distinct
// chapter number survives, in first-appearance order of the numbers.
func dedupeChapters(chapters []chapterRecord) []chapterRecord {
	uniqueChapters := make(map[string]int)
	order := make([]string, 0, len(chapters))

	for i, chapter := range chapters {
		chapterNumber := chapter.Attributes.Chapter

		isOfficial := false
		for _, rel := range chapter.Relationships {
			if rel.official() {
				isOfficial = true
			}
		}

		kept, seen := uniqueChapters[chapterNumber]
		if !seen {
			order = append(order, chapterNumber)
			uniqueChapters[chapterNumber] = i
			continue
		}

		// Keep an already-retained official release unless another
		// official one shows up
		keptOfficial := false
		for _, rel := range chapters[kept].Relationships {
			if rel.official() {
				keptOfficial = true
			}
		}
		if keptOfficial && !isOfficial {
			continue
		}

		uniqueChapters[chapterNumber] = i
	}

	deduped := make([]chapterRecord, 0, len(order))
	for _, chapterNumber := range order {
		deduped = append(deduped, chapters[uniqueChapters[chapterNumber]])
	}

	return deduped
}

// injectVolumeCovers overwrites each chapter's image with the cover URL
// of the volume it belongs to. Chapters without a volume label, or with
// no matching cover, are left unchanged.
func (t *Talker) injectVolumeCovers(seriesID string, chapters []chapterRecord) error {
	params := url.Values{}
	params.Add("manga[]", seriesID)
	params.Set("limit", fmt.Sprint(pageLimit))
	params.Set("offset", "0")

	var coversAPIResp coverListAPIResponse
	if err := t.client.getContent("/cover", params, &coversAPIResp); err != nil {
		return err
	}

	covers := coversAPIResp.Data
	totalResultCount := coversAPIResp.Total

	offset := 0
	for len(covers) < totalResultCount {
		offset += pageLimit
		params.Set("offset", fmt.Sprint(offset))

		coversAPIResp = coverListAPIResponse{}
		if err := t.client.getContent("/cover", params, &coversAPIResp); err != nil {
			return err
		}
		if len(coversAPIResp.Data) == 0 {
			break
		}

		covers = append(covers, coversAPIResp.Data...)
	}

	for i := range chapters {
		wantedVolume := chapters[i].Attributes.Volume
		if wantedVolume == "" {
			continue
		}
		for _, cover := range covers {
			if cover.Attributes.Volume == wantedVolume {
				chapters[i].Attributes.Image = fmt.Sprintf("%s/covers/%s/%s", baseUploadsURL, seriesID, cover.Attributes.FileName)
				break
			}
		}
	}

	return nil
}

var titleCaser = cases.Title(language.English)

// mapChapterToMetadata combines a chapter record and its series record
// into the host's issue metadata shape
func (t *Talker) mapChapterToMetadata(chapter *chapterRecord, series *seriesRecord) metadata.GenericMetadata {
	md := metadata.GenericMetadata{
		TalkerID:   talkerID,
		TalkerName: talkerName,
		IssueID:    chapter.ID,
		SeriesID:   series.ID,
		Issue:      util.FormatIssueNumber(chapter.Attributes.Chapter),
	}

	seriesAttributes := &series.Attributes
	chapterAttributes := &chapter.Attributes

	// TODO use a language preference, "en" is not guaranteed
	md.Series = seriesAttributes.Title["en"]
	md.Manga = "Yes"
	md.CoverImageURL = chapterAttributes.Image

	// A lastChapter value indicates a completed or cancelled series,
	// which legitimises the issue count
	if seriesAttributes.LastChapter != "" || t.configs.UseOngoingIssueCount {
		if count, ok := util.XlateInt(seriesAttributes.LastChapter); ok {
			md.IssueCount = &count
		}
		if count, ok := util.XlateInt(seriesAttributes.LastVolume); ok {
			md.VolumeCount = &count
		}
	}

	md.Description = seriesAttributes.Description.get()

	// Tags hold genre, theme, content warning, and format
	for _, seriesTag := range seriesAttributes.Tags {
		name := seriesTag.Attributes.Name["en"]
		switch seriesTag.Attributes.Group {
		case "genre":
			md.Genres = append(md.Genres, name)
		case "format":
			if name == "Web Comic" || name == "Oneshot" {
				md.Format = name
			} else {
				md.Tags = append(md.Tags, name)
			}
		case "theme", "content":
			md.Tags = append(md.Tags, name)
		}
	}

	md.Title = chapterAttributes.Title

	for _, altTitle := range seriesAttributes.AltTitles {
		if alias := altTitle.get(); alias != "" {
			md.SeriesAliases = append(md.SeriesAliases, alias)
		}
	}

	md.Language = chapterAttributes.TranslatedLanguage

	if seriesAttributes.ContentRating != "" {
		md.MaturityRating = titleCaser.String(seriesAttributes.ContentRating)
	}

	// Chapters have no dedicated page, so point to the series
	md.WebLink = fmt.Sprintf("%s/title/%s", baseSiteURL, series.ID)

	for _, rel := range series.Relationships {
		switch rel.Type {
		case "author":
			md.AddCredit(rel.name(), "writer")
		case "artist":
			md.AddCredit(rel.name(), "artist")
		case "scanlation_group":
			if rel.official() {
				md.Publisher = rel.name()
			}
		}
	}

	if volume, ok := util.XlateInt(chapterAttributes.Volume); ok {
		md.Volume = &volume
	}
	if t.configs.UseSeriesStartAsVolume && seriesAttributes.Year != 0 {
		year := seriesAttributes.Year
		md.Volume = &year
	}

	if chapterAttributes.PublishAt != "" {
		// Keep the timestamp's own offset so the calendar date doesn't
		// shift with the local timezone
		if publishDate, err := time.Parse(time.RFC3339, chapterAttributes.PublishAt); err == nil {
			day, month, year := publishDate.Day(), int(publishDate.Month()), publishDate.Year()
			md.Day, md.Month, md.Year = &day, &month, &year
		}
	} else if seriesAttributes.Year != 0 {
		year := seriesAttributes.Year
		md.Year = &year
	}

	return md
}
