package oews

// Record is one normalized spreadsheet row. Numeric fields are nil when the
// source cell was empty, carried a BLS suppression code, or failed to parse.
// nil and zero are distinct: a suppressed wage must never be stored as 0.
type Record struct {
	OccCode   string
	OccTitle  string
	OccGroup  string
	AreaCode  string
	AreaTitle string

	TotEmp  *float64
	HMean   *float64
	AMean   *float64
	AMedian *float64
	APct10  *float64
	APct25  *float64
	APct75  *float64
	APct90  *float64
}

// Occupation is a draft entity for one standardized job classification,
// keyed by its stable BLS occupation code.
type Occupation struct {
	Code  string
	Title string
	Group string
	Slug  string
}

// Metro is a draft entity for one metropolitan labor-market area, keyed by
// its BLS area code. StateAbbr is nil for non-standard area titles.
type Metro struct {
	AreaCode  string
	AreaTitle string
	Slug      string
	StateAbbr *string
}

// Fact is one (occupation, metro) salary observation with its quality score
// and indexability decision. Foreign entities are referenced by source code;
// the loader resolves them to internal ids.
type Fact struct {
	OccCode  string
	AreaCode string

	TotEmp  *int64
	HMean   *float64
	AMean   *float64
	AMedian *float64
	APct10  *float64
	APct25  *float64
	APct75  *float64
	APct90  *float64

	Score     float64
	Indexable bool
}

// NewFact derives a Fact from a normalized record, computing the quality
// score and indexability gate. Employment counts are whole numbers in the
// source; the float survives only for scoring.
func NewFact(rec Record) Fact {
	score := Score(rec)
	var totEmp *int64
	if rec.TotEmp != nil {
		n := int64(*rec.TotEmp)
		totEmp = &n
	}
	return Fact{
		OccCode:   rec.OccCode,
		AreaCode:  rec.AreaCode,
		TotEmp:    totEmp,
		HMean:     rec.HMean,
		AMean:     rec.AMean,
		AMedian:   rec.AMedian,
		APct10:    rec.APct10,
		APct25:    rec.APct25,
		APct75:    rec.APct75,
		APct90:    rec.APct90,
		Score:     score,
		Indexable: Indexable(score, rec.AMedian),
	}
}
