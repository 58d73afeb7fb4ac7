// Package sysmem reports total physical RAM, the denominator memkill's
// threshold percentage is computed against.
package sysmem

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/mitchelljqegan/process-overseer/internal/types"
)

// TotalBytes returns total physical RAM as reported by sysinfo(2), the same
// syscall the original overseer's kill_all_percent used.
func TotalBytes() (types.Bytes, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysmem: sysinfo: %w", err)
	}
	return types.Bytes(uint64(info.Totalram) * uint64(info.Unit)), nil
}
