// Package procmem provides the two primitives the overseer needs from the
// kernel: a formatted wall-clock timestamp and a child process's anonymous
// memory usage.
//
// "Memory used" is defined, for this package, as the sum of the sizes of
// every virtual memory region in /proc/<pid>/maps that has no backing inode
// (anonymous: heap, stack, mmap'd anonymous pages). File-backed regions
// (the executable itself, shared libraries) are excluded. This is a
// deliberately narrow definition and callers should not confuse it with RSS.
package procmem
