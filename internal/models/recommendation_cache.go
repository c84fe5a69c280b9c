package models

import (
	"time"

	"gorm.io/gorm"
)

// Recommendation kinds
const (
	RecommendationHealth   = "health"
	RecommendationFirstAid = "firstaid"
)

// RecommendationCacheTTL is how long a cached recommendation stays valid
const RecommendationCacheTTL = 24 * time.Hour

// RecommendationCache holds generated recommendation text keyed by profile
// content. Rows older than the TTL are ignored on read and removed by the
// cleanup job.
type RecommendationCache struct {
	gorm.Model
	CacheKey string `json:"cache_key" gorm:"uniqueIndex;not null"`
	Kind     string `json:"kind" gorm:"not null"` // "health" or "firstaid"
	Value    string `json:"value" gorm:"not null"`
}
