// Package client provides a Go client for the prodplan HTTP API, plus an
// in-memory fake for consumers' tests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the requested plan doesn't exist.
	ErrNotFound = errors.New("plan not found")

	// ErrInvalidArgument is returned when the server rejects a request.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Adjustment is a recorded delta in a plan's ledger.
type Adjustment struct {
	ID        int64
	Seq       int
	Amount    decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

// Plan is a production plan with its derived production figure as of the
// read that produced it.
type Plan struct {
	ID                string
	InitialProduction decimal.Decimal
	Production        decimal.Decimal
	Adjustments       []Adjustment
	Metadata          map[string]string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PlanSummary is a list entry without the full adjustment sequence.
type PlanSummary struct {
	ID              string
	Production      decimal.Decimal
	AdjustmentCount int
	Metadata        map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppliedAdjustment is the result of applying one adjustment.
type AppliedAdjustment struct {
	PlanID     string
	Adjustment Adjustment
	Production decimal.Decimal
}

// CreatePlanOptions configures a new plan. A nil InitialProduction means a
// zero baseline.
type CreatePlanOptions struct {
	InitialProduction *decimal.Decimal
	Metadata          map[string]string
}

// API is the interface implemented by Client and Fake.
type API interface {
	CreatePlan(ctx context.Context, opts CreatePlanOptions) (*Plan, error)
	GetPlan(ctx context.Context, planID string) (*Plan, error)
	Production(ctx context.Context, planID string) (decimal.Decimal, error)
	ApplyAdjustment(ctx context.Context, planID string, amount decimal.Decimal, reason string) (*AppliedAdjustment, error)
	ListAdjustments(ctx context.Context, planID string) ([]Adjustment, error)
	ListPlans(ctx context.Context) ([]PlanSummary, error)
	DeletePlan(ctx context.Context, planID string) error
}

// Client talks to a prodplan server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types mirror the server's JSON; amounts are decimal strings.

type wireAdjustment struct {
	ID        int64     `json:"id"`
	Seq       int       `json:"seq"`
	Amount    string    `json:"amount"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type wirePlan struct {
	ID                string            `json:"id"`
	InitialProduction string            `json:"initialProduction"`
	Production        string            `json:"production"`
	Adjustments       []wireAdjustment  `json:"adjustments"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type wireError struct {
	Error string `json:"error"`
}

// CreatePlan creates a new plan.
func (c *Client) CreatePlan(ctx context.Context, opts CreatePlanOptions) (*Plan, error) {
	body := map[string]any{}
	if opts.InitialProduction != nil {
		body["initialProduction"] = opts.InitialProduction.String()
	}
	if opts.Metadata != nil {
		body["metadata"] = opts.Metadata
	}

	var wp wirePlan
	if err := c.do(ctx, http.MethodPost, "/api/plans/", body, &wp); err != nil {
		return nil, err
	}
	return planFromWire(&wp)
}

// GetPlan retrieves a plan with its full adjustment sequence.
func (c *Client) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	var wp wirePlan
	if err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(planID), nil, &wp); err != nil {
		return nil, err
	}
	return planFromWire(&wp)
}

// Production returns the plan's current derived production figure.
func (c *Client) Production(ctx context.Context, planID string) (decimal.Decimal, error) {
	var resp struct {
		Production string `json:"production"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(planID)+"/production", nil, &resp); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(resp.Production)
}

// ApplyAdjustment appends one adjustment to the plan's ledger.
func (c *Client) ApplyAdjustment(ctx context.Context, planID string, amount decimal.Decimal, reason string) (*AppliedAdjustment, error) {
	body := map[string]any{"amount": amount.String()}
	if reason != "" {
		body["reason"] = reason
	}

	var resp struct {
		PlanID     string         `json:"planId"`
		Adjustment wireAdjustment `json:"adjustment"`
		Production string         `json:"production"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/plans/"+url.PathEscape(planID)+"/adjustments", body, &resp); err != nil {
		return nil, err
	}

	a, err := adjustmentFromWire(resp.Adjustment)
	if err != nil {
		return nil, err
	}
	production, err := decimal.NewFromString(resp.Production)
	if err != nil {
		return nil, err
	}

	return &AppliedAdjustment{
		PlanID:     resp.PlanID,
		Adjustment: a,
		Production: production,
	}, nil
}

// ListAdjustments returns the plan's adjustments in insertion order.
func (c *Client) ListAdjustments(ctx context.Context, planID string) ([]Adjustment, error) {
	var resp struct {
		Adjustments []wireAdjustment `json:"adjustments"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(planID)+"/adjustments", nil, &resp); err != nil {
		return nil, err
	}

	adjustments := make([]Adjustment, 0, len(resp.Adjustments))
	for _, wa := range resp.Adjustments {
		a, err := adjustmentFromWire(wa)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, nil
}

// ListPlans returns summaries of all plans.
func (c *Client) ListPlans(ctx context.Context) ([]PlanSummary, error) {
	var resp struct {
		Plans []struct {
			ID              string            `json:"id"`
			Production      string            `json:"production"`
			AdjustmentCount int               `json:"adjustmentCount"`
			Metadata        map[string]string `json:"metadata,omitempty"`
			CreatedAt       time.Time         `json:"createdAt"`
			UpdatedAt       time.Time         `json:"updatedAt"`
		} `json:"plans"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans/", nil, &resp); err != nil {
		return nil, err
	}

	summaries := make([]PlanSummary, 0, len(resp.Plans))
	for _, p := range resp.Plans {
		production, err := decimal.NewFromString(p.Production)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, PlanSummary{
			ID:              p.ID,
			Production:      production,
			AdjustmentCount: p.AdjustmentCount,
			Metadata:        p.Metadata,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
	}
	return summaries, nil
}

// DeletePlan deletes a plan and its adjustments.
func (c *Client) DeletePlan(ctx context.Context, planID string) error {
	return c.do(ctx, http.MethodDelete, "/api/plans/"+url.PathEscape(planID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var we wireError
		json.NewDecoder(resp.Body).Decode(&we)
		return statusError(resp.StatusCode, we.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
	default:
		return fmt.Errorf("server returned %d: %s", status, message)
	}
}

func planFromWire(wp *wirePlan) (*Plan, error) {
	initial, err := decimal.NewFromString(wp.InitialProduction)
	if err != nil {
		return nil, err
	}
	production, err := decimal.NewFromString(wp.Production)
	if err != nil {
		return nil, err
	}

	adjustments := make([]Adjustment, 0, len(wp.Adjustments))
	for _, wa := range wp.Adjustments {
		a, err := adjustmentFromWire(wa)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}

	return &Plan{
		ID:                wp.ID,
		InitialProduction: initial,
		Production:        production,
		Adjustments:       adjustments,
		Metadata:          wp.Metadata,
		CreatedAt:         wp.CreatedAt,
		UpdatedAt:         wp.UpdatedAt,
	}, nil
}

func adjustmentFromWire(wa wireAdjustment) (Adjustment, error) {
	amount, err := decimal.NewFromString(wa.Amount)
	if err != nil {
		return Adjustment{}, err
	}
	return Adjustment{
		ID:        wa.ID,
		Seq:       wa.Seq,
		Amount:    amount,
		Reason:    wa.Reason,
		CreatedAt: wa.CreatedAt,
	}, nil
}
