package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// maxResponseBytes bounds how much of an analyzer response is read
const maxResponseBytes = 1 << 20

// Client talks to the hosted analysis service. Every call is bounded by the
// configured timeout so a slow or unreachable service degrades into the
// local fallback instead of hanging a submission.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for the analyzer at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Enabled reports whether a remote analyzer is configured
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Analyze submits an entry for remote analysis. Any transport failure,
// non-2xx status or malformed body is returned as an error; callers decide
// whether to fall back.
func (c *Client) Analyze(ctx context.Context, entry model.HealthEntry) (model.AnalysisReport, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return model.AnalysisReport{}, fmt.Errorf("encode entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return model.AnalysisReport{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.AnalysisReport{}, fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("analyzer returned non-success status",
			zap.Int("status", resp.StatusCode))
		return model.AnalysisReport{}, fmt.Errorf("analyzer status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.AnalysisReport{}, fmt.Errorf("read analyzer response: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return model.AnalysisReport{}, fmt.Errorf("decode analyzer response: %w", err)
	}

	report.Source = model.SourceRemote
	return report, nil
}
