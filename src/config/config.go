// Package config implements the configurations for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// GlobalConfigs is a pointer to the Configs struct that holds all the configurations.
// It is used to access the configurations throughout the application.
// Should be initialized by the SetConfigs function.
var GlobalConfigs = &Configs{
	MangaDex: &MangaDexConfigs{},
	Cache:    &CacheConfigs{},
}

// Configs is a struct that holds all the configurations.
type Configs struct {
	MangaDex *MangaDexConfigs
	Cache    *CacheConfigs

	LogLevelInt int
}

// MangaDexConfigs is a struct that holds the MangaDex talker configurations.
type MangaDexConfigs struct {
	// APIURL overrides the default API URL. Leave empty to use the default.
	APIURL string
	// AdultContent includes content rated "erotica" and "pornographic"
	AdultContent bool
	// ExcludeDoujin excludes content tagged "Doujinshi"
	ExcludeDoujin bool
	// VolumeCoverMatching uses the volume cover for chapters when image matching
	VolumeCoverMatching bool
	// VolumeCoverWindow uses the volume cover for chapters in the issue selection window
	VolumeCoverWindow bool
	// UseOngoingIssueCount uses the current issue count for ongoing series
	UseOngoingIssueCount bool
	// UseSeriesStartAsVolume uses the series publication year as the volume number
	UseSeriesStartAsVolume bool
}

// CacheConfigs is a struct that holds the local cache configurations.
type CacheConfigs struct {
	// Path is the path of the SQLite cache file
	Path string
}

// SetConfigs sets the configurations based on a .env file if provided or using environment variables.
func SetConfigs(filePath string) error {
	var err error

	if filePath != "" {
		err = godotenv.Load(filePath)
		if err != nil {
			return fmt.Errorf("error loading env file '%s': %s", filePath, err)
		}
	}

	logLevel := zerolog.InfoLevel
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr != "" {
		logLevel, err = zerolog.ParseLevel(logLevelStr)
		if err != nil {
			return fmt.Errorf("error parsing log level '%s': %s", logLevelStr, err)
		}
	}
	GlobalConfigs.LogLevelInt = int(logLevel)

	GlobalConfigs.MangaDex.APIURL = os.Getenv("MANGADEX_API_URL")

	boolVars := []struct {
		target *bool
		env    string
	}{
		{&GlobalConfigs.MangaDex.AdultContent, "MANGADEX_ADULT_CONTENT"},
		{&GlobalConfigs.MangaDex.ExcludeDoujin, "MANGADEX_EXCLUDE_DOUJIN"},
		{&GlobalConfigs.MangaDex.VolumeCoverMatching, "MANGADEX_VOLUME_COVER_MATCHING"},
		{&GlobalConfigs.MangaDex.VolumeCoverWindow, "MANGADEX_VOLUME_COVER_WINDOW"},
		{&GlobalConfigs.MangaDex.UseOngoingIssueCount, "MANGADEX_USE_ONGOING"},
		{&GlobalConfigs.MangaDex.UseSeriesStartAsVolume, "MANGADEX_SERIES_START_AS_VOLUME"},
	}
	for _, boolVar := range boolVars {
		value := os.Getenv(boolVar.env)
		switch value {
		case "true":
			*boolVar.target = true
		case "false", "":
			*boolVar.target = false
		default:
			return fmt.Errorf("error parsing %s '%s': must be 'true' or 'false'", boolVar.env, value)
		}
	}

	cachePath := os.Getenv("CACHE_PATH")
	if cachePath == "" {
		cachePath = filepath.Join(".", "mangadex-talker.db")
	}
	GlobalConfigs.Cache.Path = cachePath

	return nil
}
