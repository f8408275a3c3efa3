// Package codec reads and writes the supported tabular formats.
//
// Each format is a Codec in a fixed registry: comma-separated text (.csv),
// Excel workbooks (.xlsx), JSON arrays of records (.json) and tab-separated
// text (.txt). Text input is typed column by column so a numeric column
// stays numeric whichever format it arrives in.
package codec
