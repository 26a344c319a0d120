package oews

import (
	"math"
	"strconv"
	"strings"
)

// GroupDetailed is the only occupation group the pipeline ingests; broader
// BLS aggregates (major, minor, broad) would duplicate their member rows.
const GroupDetailed = "detailed"

// ParseNumber converts one raw cell to a float. Empty cells and the BLS
// confidentiality codes (*, **, #) normalize to nil, as does anything that
// fails to parse after thousands separators are stripped. Never zero.
func ParseNumber(raw string) *float64 {
	v := strings.TrimSpace(raw)
	switch v {
	case "", "*", "**", "#":
		return nil
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// Detailed reports whether the row belongs to the detailed occupation group.
// Applied as a pre-filter, before normalization.
func Detailed(row RowSource) bool {
	return strings.TrimSpace(row.OccGroup()) == GroupDetailed
}

// Normalize parses one admitted row into a typed Record. The boolean is
// false when the row lacks a resolvable occupation or area code; such rows
// are routine in the source file and are dropped silently.
func Normalize(row RowSource) (Record, bool) {
	occCode := strings.TrimSpace(row.OccCode())
	areaCode := strings.TrimSpace(row.AreaCode())
	if occCode == "" || areaCode == "" {
		return Record{}, false
	}

	group := strings.TrimSpace(row.OccGroup())
	if group == "" {
		group = GroupDetailed
	}

	return Record{
		OccCode:   occCode,
		OccTitle:  strings.TrimSpace(row.OccTitle()),
		OccGroup:  group,
		AreaCode:  areaCode,
		AreaTitle: strings.TrimSpace(row.AreaTitle()),
		TotEmp:    ParseNumber(row.TotEmp()),
		HMean:     ParseNumber(row.HMean()),
		AMean:     ParseNumber(row.AMean()),
		AMedian:   ParseNumber(row.AMedian()),
		APct10:    ParseNumber(row.APct10()),
		APct25:    ParseNumber(row.APct25()),
		APct75:    ParseNumber(row.APct75()),
		APct90:    ParseNumber(row.APct90()),
	}, true
}
