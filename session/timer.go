package session

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as m:ss (or h:mm:ss past an hour) for
// the status line.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Seconds())
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
