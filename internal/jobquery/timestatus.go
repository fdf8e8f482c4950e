package jobquery

import (
	"fmt"
	"math"
	"time"
)

const (
	StatusExpired          = "Expired"
	StatusExpiringToday    = "Expiring Today"
	StatusExpiringTomorrow = "Expiring Tomorrow"
)

// TimeStatus labels an expiration date relative to now by whole calendar
// days in now's location. A nil date yields "".
func TimeStatus(expiration *time.Time, now time.Time) string {
	if expiration == nil || expiration.IsZero() {
		return ""
	}

	loc := now.Location()
	exp := expiration.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	day := time.Date(exp.Year(), exp.Month(), exp.Day(), 0, 0, 0, 0, loc)

	// Round absorbs the 23h/25h days around DST changes.
	days := int(math.Round(day.Sub(today).Hours() / 24))

	switch {
	case days < 0:
		return StatusExpired
	case days == 0:
		return StatusExpiringToday
	case days == 1:
		return StatusExpiringTomorrow
	default:
		return fmt.Sprintf("Expiring in %d days", days)
	}
}
