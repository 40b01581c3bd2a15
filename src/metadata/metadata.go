// Package metadata implements the generic metadata records the talkers
// populate. The fields mirror what a tagging application needs to write
// into a comic file, independent of which catalog the data came from.
package metadata

// Series is a series as the host application sees it, formatted from a
// talker's raw series record.
type Series struct {
	ID             string
	Name           string
	Aliases        []string
	Description    string
	Publisher      string
	Format         string
	ImageURL       string
	CountOfIssues  *int
	CountOfVolumes *int
	StartYear      *int
}

// Credit is a credited person and their role (writer, artist, ...)
type Credit struct {
	Person string
	Role   string
}

// GenericMetadata is the metadata of a single issue, combined from the
// issue's own record and its series record.
type GenericMetadata struct {
	IsEmpty bool

	TalkerID   string
	TalkerName string

	SeriesID string
	IssueID  string

	Series        string
	SeriesAliases []string
	Issue         string
	Title         string
	Description   string

	IssueCount  *int
	VolumeCount *int
	Volume      *int

	Genres  []string
	Tags    []string
	Format  string
	Credits []Credit

	Publisher      string
	MaturityRating string
	Language       string
	Manga          string

	Day   *int
	Month *int
	Year  *int

	CoverImageURL string
	WebLink       string
}

// New returns an empty metadata value. Talkers return it when a lookup
// matches nothing instead of returning nil.
func New() GenericMetadata {
	return GenericMetadata{IsEmpty: true}
}

// AddCredit appends a credit to the metadata
func (md *GenericMetadata) AddCredit(person, role string) {
	md.Credits = append(md.Credits, Credit{Person: person, Role: role})
}
