// Package ddf holds the typed tables of a WPP to DDF conversion: the source
// sheets as loaded from the workbook, the concept, entity, datapoint and note
// rows derived from them, and the generic Table every output file is written
// from. It also owns the two pure text rules everything else depends on:
// deriving concept identifiers from labels and splitting "Name (Unit)" headers.
package ddf
