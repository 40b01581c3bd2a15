// Package sources implements the metadata sources.
// It provides a way to get series and issue metadata from different catalogs.
package sources

import (
	"fmt"

	"github.com/diogovalentte/mangadex-talker/src/sources/models"
)

// talkers is a map of all registered talkers
var talkers = map[string]models.Talker{}

// RegisterTalker registers a new talker
func RegisterTalker(talker models.Talker) {
	talkers[talker.ID()] = talker
}

// DeleteTalker deletes a talker
func DeleteTalker(id string) {
	delete(talkers, id)
}

// GetTalker returns a talker
func GetTalker(id string) (models.Talker, error) {
	value, ok := talkers[id]
	if !ok {
		return nil, fmt.Errorf("talker %s not found", id)
	}
	return value, nil
}

// GetTalkers returns all talkers
func GetTalkers() map[string]models.Talker {
	return talkers
}
