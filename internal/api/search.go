package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/metrics"
)

const (
	salaryResultLimit = 20
	entityResultLimit = 10
)

type occupationResult struct {
	OccTitle  string   `json:"occ_title"`
	Slug      string   `json:"slug"`
	AvgSalary *float64 `json:"avg_salary,omitempty"`
}

type locationResult struct {
	AreaTitle string  `json:"area_title"`
	Slug      string  `json:"slug"`
	StateAbbr *string `json:"state_abbr,omitempty"`
}

type searchResult struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Href     string `json:"href"`
	Salary   string `json:"salary,omitempty"`
}

type searchResponse struct {
	Error       string             `json:"error,omitempty"`
	Occupations []occupationResult `json:"occupations"`
	Locations   []locationResult   `json:"locations"`
	Results     []searchResult     `json:"results"`
}

func emptySearchResponse() searchResponse {
	return searchResponse{
		Occupations: []occupationResult{},
		Locations:   []locationResult{},
		Results:     []searchResult{},
	}
}

// search serves autocomplete and the search page. A job query alone
// matches occupations and falls through to locations; a location query
// alone matches locations; both together additionally match concrete
// salary pages.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	location := strings.TrimSpace(r.URL.Query().Get("location"))

	resp := emptySearchResponse()
	if q == "" && location == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ctx := r.Context()

	if q != "" && location != "" {
		metrics.ObserveSearch("salary")
		hits, err := s.dir.SearchSalaryPages(ctx, q, location, salaryResultLimit)
		if err != nil {
			s.searchFailed(w, err)
			return
		}
		for _, h := range hits {
			resp.Results = append(resp.Results, searchResult{
				Type:     "salary",
				Title:    h.OccTitle,
				Subtitle: h.AreaTitle,
				Href:     "/salary/" + h.OccSlug + "/" + h.MetroSlug,
				Salary:   formatSalary(h.AMedian),
			})
		}
	}

	if q != "" {
		metrics.ObserveSearch("occupation")
		hits, err := s.dir.SearchOccupations(ctx, q, entityResultLimit)
		if err != nil {
			s.searchFailed(w, err)
			return
		}
		for _, h := range hits {
			resp.Occupations = append(resp.Occupations, occupationResult{
				OccTitle:  h.Title,
				Slug:      h.Slug,
				AvgSalary: h.AvgMedian,
			})
			resp.Results = append(resp.Results, searchResult{
				Type:     "occupation",
				Title:    h.Title,
				Subtitle: "View salary data across all locations",
				Href:     "/occupations/" + h.Slug,
			})
		}
	}

	term := location
	if term == "" {
		term = q
	}
	if term != "" {
		metrics.ObserveSearch("location")
		hits, err := s.dir.SearchMetros(ctx, term, entityResultLimit)
		if err != nil {
			s.searchFailed(w, err)
			return
		}
		for _, h := range hits {
			resp.Locations = append(resp.Locations, locationResult{
				AreaTitle: h.AreaTitle,
				Slug:      h.Slug,
				StateAbbr: h.StateAbbr,
			})
			subtitle := "View all salaries in this area"
			if h.StateAbbr != nil && *h.StateAbbr != "" {
				subtitle = *h.StateAbbr
			}
			resp.Results = append(resp.Results, searchResult{
				Type:     "location",
				Title:    h.AreaTitle,
				Subtitle: subtitle,
				Href:     "/locations/" + h.Slug,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) searchFailed(w http.ResponseWriter, err error) {
	s.logger.Error("search failed", zap.Error(err))
	resp := emptySearchResponse()
	resp.Error = "Search failed"
	writeJSON(w, http.StatusInternalServerError, resp)
}

// formatSalary renders a wage as whole US dollars with thousands
// separators, matching the published page formatting.
func formatSalary(amount *float64) string {
	if amount == nil || *amount == 0 {
		return "N/A"
	}
	n := int64(math.Round(*amount))
	neg := n < 0
	if neg {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
