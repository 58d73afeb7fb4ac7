package procmem

import "time"

// timestampLayout matches the source's "%d-%02d-%02d %02d:%02d:%02d".
const timestampLayout = "2006-01-02 15:04:05"

// Now formats the current local time the way every log line and sample
// timestamp in this system expects it.
func Now() string {
	return time.Now().Format(timestampLayout)
}
