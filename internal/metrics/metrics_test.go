package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Reset collectors for testing purposes.
	httpRequestsTotal = nil
	httpRequestDurationSeconds = nil
	searchQueriesTotal = nil
	sitemapPagesServedTotal = nil

	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if httpRequestsTotal == nil || httpRequestDurationSeconds == nil ||
		searchQueriesTotal == nil || sitemapPagesServedTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	// A simple check to see if a metric can be used.
	ObserveSearch("occupation")
	if val := testutil.ToFloat64(searchQueriesTotal.WithLabelValues("occupation")); val != 1 {
		t.Errorf("Expected searchQueriesTotal to be 1, got %f", val)
	}

	ObserveSitemapPage()
	if val := testutil.ToFloat64(sitemapPagesServedTotal); val != 1 {
		t.Errorf("Expected sitemapPagesServedTotal to be 1, got %f", val)
	}
}
