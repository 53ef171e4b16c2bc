// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix used for Redis slot cache keys.
const AvailabilityCachePrefix = "availability:"

// DefaultAvailabilityCacheTTL applies when AVAILABILITY_CACHE_TTL is zero.
const DefaultAvailabilityCacheTTL = 60 * time.Second
