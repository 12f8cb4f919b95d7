package cli

import (
	"fmt"
	"time"
)

// FormatDurationShort renders an elapsed time as M:SS, switching to
// H:MM:SS past the hour mark. Sub-second remainders are truncated;
// render waits are reported in whole seconds.
func FormatDurationShort(d time.Duration) string {
	total := int(d / time.Second)
	h, rem := total/3600, total%3600
	m, s := rem/60, rem%60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
