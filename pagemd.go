// Package pagemd converts rendered web pages into portable Markdown files.
// It selects the main content region of a page, cleans it, rewrites it as
// Markdown and prepends a front-matter header describing where it came from.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package pagemd
