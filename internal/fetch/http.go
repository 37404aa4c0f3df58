package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// HTTPStatusError is a non-2xx response from the API.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// Is maps 404 responses onto apperrors.ErrNotFound.
func (e *HTTPStatusError) Is(target error) bool {
	return target == apperrors.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// HTTPLoader loads dashboard data from the HTTP API. Its methods have the
// Loader signature so they can back a Query directly.
//
// Network failures and 5xx responses are reported as transient so the query
// retries them; 4xx responses are not.
type HTTPLoader struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewHTTPLoader creates a loader for the API at baseURL, e.g.
// "http://localhost:5001". A nil client gets a 10 second timeout.
func NewHTTPLoader(baseURL string, httpClient *http.Client) *HTTPLoader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPLoader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// WithToken returns a copy that sends token as a bearer credential.
func (l *HTTPLoader) WithToken(token string) *HTTPLoader {
	c := *l
	c.token = token
	return &c
}

// Dashboard loads the dashboard summary of a fund.
func (l *HTTPLoader) Dashboard(ctx context.Context, fundID int64) (model.DashboardSummary, error) {
	var summary model.DashboardSummary
	err := l.get(ctx, "/api/dashboard-summary/"+strconv.FormatInt(fundID, 10), nil, &summary)
	return summary, err
}

// Companies loads the portfolio companies of a fund.
func (l *HTTPLoader) Companies(ctx context.Context, fundID int64) ([]model.PortfolioCompany, error) {
	var companies []model.PortfolioCompany
	q := url.Values{"fundId": {strconv.FormatInt(fundID, 10)}}
	err := l.get(ctx, "/api/portfolio-companies", q, &companies)
	return companies, err
}

// Activities loads the activity feed of a fund, newest first.
func (l *HTTPLoader) Activities(ctx context.Context, fundID int64) ([]model.Activity, error) {
	var activities []model.Activity
	q := url.Values{"fundId": {strconv.FormatInt(fundID, 10)}}
	err := l.get(ctx, "/api/activities", q, &activities)
	return activities, err
}

func (l *HTTPLoader) get(ctx context.Context, path string, query url.Values, out any) error {
	u := l.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if l.token != "" {
		req.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperrors.Transient(fmt.Errorf("GET %s: %w", path, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Transient(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
		if resp.StatusCode >= 500 {
			return apperrors.Transient(statusErr)
		}
		return statusErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the message of the API error envelope.
func errorMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == "" {
		return strings.TrimSpace(string(body))
	}
	return envelope.Error
}
