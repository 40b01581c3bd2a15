package cmd

import (
	"fmt"

	"github.com/diogovalentte/mangadex-talker/src/cache"
	"github.com/diogovalentte/mangadex-talker/src/config"
	"github.com/diogovalentte/mangadex-talker/src/sources"
	"github.com/diogovalentte/mangadex-talker/src/sources/mangadex"
	"github.com/diogovalentte/mangadex-talker/src/sources/models"
)

// withTalker opens the cache, registers the talker, runs fn, and closes
// the cache afterwards
func withTalker(fn func(talker models.Talker) error) error {
	comicCache, err := cache.OpenConn(config.GlobalConfigs.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer comicCache.Close()

	talker := mangadex.New(config.GlobalConfigs.MangaDex, comicCache, nil)
	sources.RegisterTalker(talker)

	return fn(talker)
}

func formatCount(count *int) string {
	if count == nil {
		return "N/A"
	}

	return fmt.Sprint(*count)
}
