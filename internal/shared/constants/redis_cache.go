package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for the BookIt backend.
// Pattern: bookit:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_SHORT       = 6 * time.Hour    // user profiles
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // venue details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // venue listings
	TTL_DYNAMIC_MEDIUM     = 10 * time.Minute // admin moderation queue
	TTL_DYNAMIC_SHORT      = 5 * time.Minute  // seat availability views
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "bookit"
)

// ================== VENUES MODULE ==================

const (
	CACHE_KEY_VENUES_LIST  = CACHE_PREFIX + ":venues:list"         // + :page:X:limit:Y:search:Z
	CACHE_KEY_VENUE_DETAIL = CACHE_PREFIX + ":venues:detail:uuid:" // + venue-id
)

const (
	TTL_VENUES_LIST  = TTL_SEMI_STATIC_SHORT
	TTL_VENUE_DETAIL = TTL_DYNAMIC_SHORT // seat bookings change often
)

// ================== HOST REQUESTS MODULE ==================

const (
	CACHE_KEY_HOST_REQUESTS_PENDING = CACHE_PREFIX + ":hostrequests:pending"
)

const (
	TTL_HOST_REQUESTS_PENDING = TTL_DYNAMIC_MEDIUM
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_VENUES_ALL        = CACHE_PREFIX + ":venues:*"
	PATTERN_INVALIDATE_HOST_REQUESTS_ALL = CACHE_PREFIX + ":hostrequests:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildVenueListKey(page, limit int, search string) string {
	if search != "" {
		return fmt.Sprintf("%s:page:%d:limit:%d:search:%s", CACHE_KEY_VENUES_LIST, page, limit, search)
	}
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_VENUES_LIST, page, limit)
}

func BuildVenueDetailKey(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID
}

func BuildVenueDetailPattern(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID + "*"
}
