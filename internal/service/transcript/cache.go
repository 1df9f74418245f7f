package transcript

import (
	"time"

	"github.com/ilyadubrovsky/gradebar/pkg/gradebook"
	"github.com/jellydator/ttlcache/v3"
)

// NewEnrollmentsCache keeps the enrollment list of a student for ttl.
// Hits do not extend the lifetime of an entry.
func NewEnrollmentsCache(ttl time.Duration) *ttlcache.Cache[string, []gradebook.Enrollment] {
	return ttlcache.New[string, []gradebook.Enrollment](
		ttlcache.WithTTL[string, []gradebook.Enrollment](ttl),
		ttlcache.WithDisableTouchOnHit[string, []gradebook.Enrollment](),
	)
}
