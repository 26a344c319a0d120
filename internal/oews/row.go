package oews

import (
	"fmt"
	"strings"
)

// RowSource exposes the raw cells of one spreadsheet row, one method per
// required field. BLS publishes the same layout under two column-name
// conventions (uppercase for the official workbooks, lowercase for some
// derived exports); each convention gets its own adapter so the rest of
// the pipeline consumes a single shape.
type RowSource interface {
	OccCode() string
	OccTitle() string
	OccGroup() string
	AreaCode() string
	AreaTitle() string
	TotEmp() string
	HMean() string
	AMean() string
	AMedian() string
	APct10() string
	APct25() string
	APct75() string
	APct90() string
}

// Adapter wraps one raw row (header -> cell) in the RowSource for the
// convention detected on the file's header row.
type Adapter func(cells map[string]string) RowSource

// DetectAdapter inspects the header row and selects the matching adapter.
// Detection happens once per file, not per row.
func DetectAdapter(headers []string) (Adapter, error) {
	for _, h := range headers {
		switch strings.TrimSpace(h) {
		case "OCC_CODE":
			return func(cells map[string]string) RowSource { return upperRow(cells) }, nil
		case "occ_code":
			return func(cells map[string]string) RowSource { return lowerRow(cells) }, nil
		}
	}
	return nil, fmt.Errorf("no occupation code column in header %v", headers)
}

// upperRow reads the uppercase BLS workbook convention.
type upperRow map[string]string

func (r upperRow) OccCode() string   { return r["OCC_CODE"] }
func (r upperRow) OccTitle() string  { return r["OCC_TITLE"] }
func (r upperRow) OccGroup() string  { return firstOf(r, "OCC_GROUP", "O_GROUP") }
func (r upperRow) AreaCode() string  { return firstOf(r, "AREA", "AREA_CODE") }
func (r upperRow) AreaTitle() string { return firstOf(r, "AREA_TITLE", "AREA_NAME") }
func (r upperRow) TotEmp() string    { return r["TOT_EMP"] }
func (r upperRow) HMean() string     { return r["H_MEAN"] }
func (r upperRow) AMean() string     { return r["A_MEAN"] }
func (r upperRow) AMedian() string   { return r["A_MEDIAN"] }
func (r upperRow) APct10() string    { return r["A_PCT10"] }
func (r upperRow) APct25() string    { return r["A_PCT25"] }
func (r upperRow) APct75() string    { return r["A_PCT75"] }
func (r upperRow) APct90() string    { return r["A_PCT90"] }

// lowerRow reads the lowercase export convention.
type lowerRow map[string]string

func (r lowerRow) OccCode() string   { return r["occ_code"] }
func (r lowerRow) OccTitle() string  { return r["occ_title"] }
func (r lowerRow) OccGroup() string  { return firstOf(r, "occ_group", "o_group") }
func (r lowerRow) AreaCode() string  { return firstOf(r, "area", "area_code") }
func (r lowerRow) AreaTitle() string { return firstOf(r, "area_title", "area_name") }
func (r lowerRow) TotEmp() string    { return r["tot_emp"] }
func (r lowerRow) HMean() string     { return r["h_mean"] }
func (r lowerRow) AMean() string     { return r["a_mean"] }
func (r lowerRow) AMedian() string   { return r["a_median"] }
func (r lowerRow) APct10() string    { return r["a_pct10"] }
func (r lowerRow) APct25() string    { return r["a_pct25"] }
func (r lowerRow) APct75() string    { return r["a_pct75"] }
func (r lowerRow) APct90() string    { return r["a_pct90"] }

func firstOf(cells map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := cells[k]; v != "" {
			return v
		}
	}
	return ""
}
