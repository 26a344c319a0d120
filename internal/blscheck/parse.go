// Package blscheck detects new OEWS data releases by scraping the BLS
// tables page and comparing the latest published period against the
// data vintage recorded in the database.
package blscheck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OEWS releases are annual May snapshots; the tables page names them
// "May <year>" and links archives named oesm<yy>ma.zip.
var (
	periodPattern   = regexp.MustCompile(`(?i)May\s+(\d{4})`)
	downloadPattern = regexp.MustCompile(`(?i)oesm(\d{2})ma\.zip`)
)

// Release is the newest data release advertised on the tables page.
type Release struct {
	Period      string
	Year        int
	DownloadURL string
}

// ParseTablesPage extracts the most recent release from the raw HTML of
// the BLS OEWS tables page.
func ParseTablesPage(html []byte) (Release, error) {
	text := string(html)

	latestYear := 0
	for _, m := range periodPattern.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if year > latestYear {
			latestYear = year
		}
	}
	if latestYear == 0 {
		return Release{}, fmt.Errorf("no data periods found on tables page")
	}

	// Archive names carry two-digit years; match the one belonging to the
	// latest period, or construct it if the page lists none.
	downloadURL := fmt.Sprintf("https://www.bls.gov/oes/special.requests/oesm%02dma.zip", latestYear%100)
	for _, m := range downloadPattern.FindAllStringSubmatch(text, -1) {
		short, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if shortToFullYear(short) == latestYear {
			downloadURL = fmt.Sprintf("https://www.bls.gov/oes/special.requests/oesm%sma.zip", m[1])
			break
		}
	}

	return Release{
		Period:      fmt.Sprintf("May %d", latestYear),
		Year:        latestYear,
		DownloadURL: downloadURL,
	}, nil
}

func shortToFullYear(short int) int {
	if short >= 90 {
		return 1900 + short
	}
	return 2000 + short
}

// PeriodYear extracts the year from a "May <year>" period label; zero if
// the label is malformed.
func PeriodYear(period string) int {
	fields := strings.Fields(period)
	if len(fields) < 2 {
		return 0
	}
	year, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return year
}

// ComparePeriods returns positive when latest is newer than current, zero
// when equal, negative when older.
func ComparePeriods(current, latest string) int {
	return PeriodYear(latest) - PeriodYear(current)
}
