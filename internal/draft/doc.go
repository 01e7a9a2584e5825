// Package draft models a catalog entry while it is being authored.
//
// A Draft is a plain value. Every operation returns a new Draft and never
// shares a cast or platform slice with its input, so a caller may keep older
// versions around (for undo or for racing upload completions) without
// aliasing. Validate checks the required-field contract before anything is
// sent; Normalize turns a draft into the wire payload the catalog API expects.
package draft
