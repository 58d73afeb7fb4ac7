// Package overseer wires together the request queue, worker pool, dispatch
// table and shutdown token into the long-running daemon described in
// §4.G: accept connections, hand them to a fixed worker pool, and shut
// down cleanly on SIGINT.
package overseer
