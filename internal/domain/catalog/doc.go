// Package catalog turns raw CSV records into the normalized, immutable
// earthquake table the rest of the service reads.
//
// Normalization is deliberately forgiving at the row level: a row with an
// unparseable time is dropped and counted, a non-numeric measurement becomes
// nil rather than dropping the row, a missing region is derived from the
// place text, and a missing id is synthesized deterministically from the row
// content. Duplicate ids keep the first occurrence. The output is sorted by
// time ascending. An empty table is a valid result, not an error; only a
// missing header or a header without a time column fails the whole load.
package catalog
