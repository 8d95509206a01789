// Package store persists run artifacts (source text, scored results,
// extracted entities) under hierarchical keys. Artifacts are durable
// records, not a cache: disk entries never expire, and the memory tier
// only accelerates repeat reads within a process.
package store

import (
	"fmt"
	"strings"

	"github.com/NikhilGogu/sustainability-signals/internal/model"
)

// Store defines artifact persistence
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	List(prefix string) ([]string, error)
}

// TextKey is where a report's normalized source text lives
func TextKey(reportID string) string {
	return fmt.Sprintf("reports/%s/text.md", sanitize(reportID))
}

// DQKey is where a report's disclosure-quality result lives. The schema
// version is part of the key so a version bump never reads old payloads
// as current.
func DQKey(reportID string) string {
	return fmt.Sprintf("reports/%s/dq.v%02d.json", sanitize(reportID), model.DQVersion)
}

// LegacyDQKeys lists the keys older schema versions wrote, newest first.
// Used to serve stale results when the current version is absent.
func LegacyDQKeys(reportID string) []string {
	id := sanitize(reportID)
	var keys []string
	for v := model.DQVersion - 1; v >= 1; v-- {
		keys = append(keys, fmt.Sprintf("reports/%s/dq.v%02d.json", id, v))
	}
	return keys
}

// EntitiesKey is where a report's extracted entities live
func EntitiesKey(reportID string) string {
	return fmt.Sprintf("reports/%s/entities.json", sanitize(reportID))
}

// sanitize keeps report IDs from escaping the artifact tree
func sanitize(id string) string {
	id = strings.ReplaceAll(id, "..", "_")
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	id = replacer.Replace(id)
	if id == "" {
		id = "_"
	}
	return id
}
