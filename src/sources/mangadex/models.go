package mangadex

import (
	"fmt"
	"strings"
)

type localisedStrings map[string]string

func (ls localisedStrings) get() string {
	if val, ok := ls["en"]; ok {
		return val
	}
	if val, ok := ls["ja"]; ok {
		return val
	}
	if val, ok := ls["ja-ro"]; ok {
		return val
	}
	for _, val := range ls {
		return val
	}

	return ""
}

// relationship is a related entity attached to a series or chapter. The
// attributes payload depends on the type tag: author/artist carry a
// name, cover_art carries a fileName, scanlation_group carries a name
// and an official flag.
type relationship struct {
	Attributes map[string]interface{} `json:"attributes"`
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
}

func (r *relationship) name() string {
	if val, ok := r.Attributes["name"].(string); ok {
		return val
	}

	return ""
}

func (r *relationship) fileName() string {
	if val, ok := r.Attributes["fileName"].(string); ok {
		return val
	}

	return ""
}

func (r *relationship) official() bool {
	if val, ok := r.Attributes["official"].(bool); ok {
		return val
	}

	return false
}

type tag struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Attributes tagAttributes `json:"attributes"`
}

type tagAttributes struct {
	Name        localisedStrings `json:"name"`
	Description localisedStrings `json:"description"`
	Group       string           `json:"group"`
	Version     int              `json:"version"`
}

type seriesAttributes struct {
	Title                  localisedStrings   `json:"title"`
	AltTitles              []localisedStrings `json:"altTitles"`
	Description            localisedStrings   `json:"description"`
	Links                  localisedStrings   `json:"links"`
	OriginalLanguage       string             `json:"originalLanguage"`
	LastVolume             string             `json:"lastVolume"`
	LastChapter            string             `json:"lastChapter"`
	PublicationDemographic string             `json:"publicationDemographic"`
	Status                 string             `json:"status"`
	Year                   int                `json:"year"`
	ContentRating          string             `json:"contentRating"`
	Tags                   []tag              `json:"tags"`
	State                  string             `json:"state"`
	CreatedAt              string             `json:"createdAt"`
	UpdatedAt              string             `json:"updatedAt"`
	Version                int                `json:"version"`
}

type seriesRecord struct {
	ID            string           `json:"id"`
	Type          string           `json:"type"`
	Attributes    seriesAttributes `json:"attributes"`
	Relationships []relationship   `json:"relationships"`
}

type chapterAttributes struct {
	Title              string `json:"title"`
	Volume             string `json:"volume"`
	Chapter            string `json:"chapter"`
	TranslatedLanguage string `json:"translatedLanguage"`
	// Image is not from the API, it's injected from the volume cover
	Image       string `json:"image,omitempty"`
	ExternalURL string `json:"externalUrl"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	PublishAt   string `json:"publishAt"`
	ReadableAt  string `json:"readableAt"`
	Pages       int    `json:"pages"`
	Version     int    `json:"version"`
}

type chapterRecord struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Attributes    chapterAttributes `json:"attributes"`
	Relationships []relationship    `json:"relationships"`
}

type coverAttributes struct {
	Description string `json:"description"`
	Volume      string `json:"volume"`
	FileName    string `json:"fileName"`
	Locale      string `json:"locale"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type coverRecord struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes coverAttributes `json:"attributes"`
}

// ErrorResponse is typical response for errored requests.
type ErrorResponse struct {
	Result string  `json:"result"`
	Errors []Error `json:"errors"`
}

// GetErrors get the errors for this particular request.
func (er *ErrorResponse) GetErrors() string {
	var errors strings.Builder
	for _, err := range er.Errors {
		errors.WriteString(fmt.Sprintf("%s: %s\n", err.Title, err.Detail))
	}
	return errors.String()
}

// Error contains details of an error.
type Error struct {
	ID string `json:"id"`

	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

type searchSeriesAPIResponse struct {
	Result   string         `json:"result"`
	Response string         `json:"response"`
	Data     []seriesRecord `json:"data"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	Total    int            `json:"total"`
}

type getSeriesAPIResponse struct {
	Result   string       `json:"result"`
	Response string       `json:"response"`
	Data     seriesRecord `json:"data"`
}

type chapterListAPIResponse struct {
	Result   string          `json:"result"`
	Response string          `json:"response"`
	Data     []chapterRecord `json:"data"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Total    int             `json:"total"`
}

type getChapterAPIResponse struct {
	Result   string        `json:"result"`
	Response string        `json:"response"`
	Data     chapterRecord `json:"data"`
}

type coverListAPIResponse struct {
	Result   string        `json:"result"`
	Response string        `json:"response"`
	Data     []coverRecord `json:"data"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
	Total    int           `json:"total"`
}
