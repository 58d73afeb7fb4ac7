package procmem

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchelljqegan/process-overseer/internal/types"
)

// MemUsed sums the sizes of every anonymous (no backing inode) virtual
// memory region belonging to pid, reading /proc/<pid>/maps.
//
// Each line of that file looks like:
//
//	start-end perms offset dev inode pathname
//
// A region is anonymous when inode is 0 (no pathname, or a pathname like
// "[heap]"/"[stack]" with a zero inode). Returns ErrProbeGone if the map
// can't be opened or read, which in practice means the child has already
// exited.
func MemUsed(pid int) (types.Bytes, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeGone, err)
	}
	defer f.Close()

	var total uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n, ok := parseAnonymousRegion(scanner.Text())
		if ok {
			total += n
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeGone, err)
	}
	return types.Bytes(total), nil
}

// parseAnonymousRegion parses one /proc/<pid>/maps line and returns its size
// and true if the region is anonymous (inode field is 0).
func parseAnonymousRegion(line string) (uint64, bool) {
	fields := strings.Fields(line)
	// address perms offset dev inode [pathname]
	if len(fields) < 5 {
		return 0, false
	}
	bounds := strings.SplitN(fields[0], "-", 2)
	if len(bounds) != 2 {
		return 0, false
	}
	start, err := strconv.ParseUint(bounds[0], 16, 64)
	if err != nil {
		return 0, false
	}
	end, err := strconv.ParseUint(bounds[1], 16, 64)
	if err != nil {
		return 0, false
	}
	inode, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil || inode != 0 {
		return 0, false
	}
	if end < start {
		return 0, false
	}
	return end - start, true
}
