package config

import (
	"testing"
)

func TestSetConfigs(t *testing.T) {
	t.Run("Should populate the configs from environment variables", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("MANGADEX_API_URL", "http://localhost:8080")
		t.Setenv("MANGADEX_ADULT_CONTENT", "true")
		t.Setenv("MANGADEX_EXCLUDE_DOUJIN", "false")
		t.Setenv("MANGADEX_VOLUME_COVER_WINDOW", "")
		t.Setenv("CACHE_PATH", "/tmp/test-cache.db")

		if err := SetConfigs(""); err != nil {
			t.Fatalf("error while setting configs: %v", err)
		}

		if GlobalConfigs.MangaDex.APIURL != "http://localhost:8080" {
			t.Fatalf("expected API URL 'http://localhost:8080', got '%s'", GlobalConfigs.MangaDex.APIURL)
		}
		if !GlobalConfigs.MangaDex.AdultContent {
			t.Fatalf("expected adult content to be enabled")
		}
		if GlobalConfigs.MangaDex.ExcludeDoujin {
			t.Fatalf("expected doujin exclusion to be disabled")
		}
		if GlobalConfigs.MangaDex.VolumeCoverWindow {
			t.Fatalf("expected an empty boolean variable to default to false")
		}
		if GlobalConfigs.Cache.Path != "/tmp/test-cache.db" {
			t.Fatalf("expected cache path '/tmp/test-cache.db', got '%s'", GlobalConfigs.Cache.Path)
		}
	})
	t.Run("Should fail on an invalid boolean variable", func(t *testing.T) {
		t.Setenv("MANGADEX_ADULT_CONTENT", "yes")

		if err := SetConfigs(""); err == nil {
			t.Fatalf("expected an error for an invalid boolean variable")
		}
	})
	t.Run("Should fail on an invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")

		if err := SetConfigs(""); err == nil {
			t.Fatalf("expected an error for an invalid log level")
		}
	})
	t.Run("Should fail on a missing env file", func(t *testing.T) {
		if err := SetConfigs("/does/not/exist.env"); err == nil {
			t.Fatalf("expected an error for a missing env file")
		}
	})
}
