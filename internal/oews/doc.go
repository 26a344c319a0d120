// Package oews contains the pure domain logic for BLS OEWS occupational
// salary data: row normalization across the two published column-name
// conventions, the data-quality score, slug and state derivation, and
// entity deduplication. Nothing in this package touches the database.
package oews
