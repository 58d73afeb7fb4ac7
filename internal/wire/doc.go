// Package wire implements the overseer's single-frame request codec and
// its line-oriented response formats, described in full in §6 of the
// system's design document.
//
// A request is one whitespace-tokenized line, bounded by MaxFrameSize
// bytes. Parse never fails: an unrecognized or truncated frame degrades to
// whatever partial command it can build (typically an Exec with an empty
// file, which naturally fails at exec time). This leniency is deliberate,
// not an oversight — see the package-level ParseRequest doc.
package wire
