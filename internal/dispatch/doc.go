// Package dispatch turns one accepted connection into one of three actions:
// run a child under supervision, answer a monitoring query, or kill every
// child over a memory threshold. It is the glue between internal/wire,
// internal/monitor, internal/supervisor and internal/sysmem.
package dispatch
