package blscheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/store"
)

// DefaultTablesURL is the BLS OEWS tables page listing every release.
const DefaultTablesURL = "https://www.bls.gov/oes/tables.htm"

// Metadater is the slice of the store the checker needs.
type Metadater interface {
	GetMetadata(ctx context.Context) (store.Metadata, error)
	TouchLastChecked(ctx context.Context) error
}

// Config controls the tables-page fetch.
type Config struct {
	TablesURL string
	UserAgent string
	Timeout   time.Duration
}

// Result is the outcome of one freshness check.
type Result struct {
	HasUpdate     bool
	CurrentPeriod string
	LatestPeriod  string
	DownloadURL   string
}

// Checker compares the stored data vintage against the live BLS page.
type Checker struct {
	cfg    Config
	meta   Metadater
	logger *zap.Logger
}

// New creates a Checker.
func New(cfg Config, meta Metadater, logger *zap.Logger) *Checker {
	if cfg.TablesURL == "" {
		cfg.TablesURL = DefaultTablesURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{cfg: cfg, meta: meta, logger: logger}
}

// Check fetches the tables page and reports whether a newer release than
// the stored data period is available. The last-checked timestamp is
// bumped whenever the check runs to completion, whether or not an update
// was found.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	meta, err := c.meta.GetMetadata(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load current data period: %w", err)
	}

	body, err := c.fetchTablesPage(ctx)
	if err != nil {
		return Result{CurrentPeriod: meta.DataPeriod}, fmt.Errorf("fetch tables page: %w", err)
	}

	if err := c.meta.TouchLastChecked(ctx); err != nil {
		c.logger.Warn("could not bump last-checked timestamp", zap.Error(err))
	}

	release, err := ParseTablesPage(body)
	if err != nil {
		return Result{CurrentPeriod: meta.DataPeriod}, fmt.Errorf("parse tables page: %w", err)
	}

	result := Result{
		HasUpdate:     ComparePeriods(meta.DataPeriod, release.Period) > 0,
		CurrentPeriod: meta.DataPeriod,
		LatestPeriod:  release.Period,
		DownloadURL:   release.DownloadURL,
	}
	c.logger.Info("freshness check complete",
		zap.String("current_period", result.CurrentPeriod),
		zap.String("latest_period", result.LatestPeriod),
		zap.Bool("has_update", result.HasUpdate),
	)
	return result, nil
}

func (c *Checker) fetchTablesPage(ctx context.Context) ([]byte, error) {
	collector := colly.NewCollector(colly.Async(false))
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(c.cfg.Timeout)
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		if r.StatusCode != http.StatusOK {
			fetchErr = fmt.Errorf("unexpected status %d", r.StatusCode)
			return
		}
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(c.cfg.TablesURL)
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response from %s", c.cfg.TablesURL)
	}
	return body, nil
}
