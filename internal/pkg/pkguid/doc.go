// Package pkguid provides helpers for generating unique identifiers.
//
// Sessions and correlation IDs use UUIDs (StringID); download artifacts use
// Snowflake IDs (NumberID) so they sort by creation time.
package pkguid
