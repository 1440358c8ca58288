// Package planclient is a stub for testing the plan linter.
// It provides minimal signatures so the linter can analyze code that uses
// the real client package.
package planclient

// Client is a stub of the prodplan API client.
type Client struct{}

// Adjustment is a stub adjustment result.
type Adjustment struct {
	Amount float64
}

func (c *Client) GetPlan(ctx interface{}, planID string) interface{} { return nil }

func (c *Client) Production(ctx interface{}, planID string) float64 { return 0 }

func (c *Client) ApplyAdjustment(ctx interface{}, planID string, amount float64, reason string) Adjustment {
	return Adjustment{Amount: amount}
}

func (c *Client) ListAdjustments(ctx interface{}, planID string) []Adjustment { return nil }

func (c *Client) DeletePlan(ctx interface{}, planID string) error { return nil }
