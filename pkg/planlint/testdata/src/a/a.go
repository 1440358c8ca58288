// Package a is a test package for the plan linter.
package a

import "planclient"

// Test cases

func emptyGetPlan(c *planclient.Client) {
	c.GetPlan(nil, "") // want "GetPlan called with empty plan ID literal"
}

func emptyProduction(c *planclient.Client) {
	c.Production(nil, "") // want "Production called with empty plan ID literal"
}

func emptyDeletePlan(c *planclient.Client) {
	c.DeletePlan(nil, "") // want "DeletePlan called with empty plan ID literal"
}

func shadowTotal(c *planclient.Client, amounts []float64) float64 {
	production := 0.0
	for _, amount := range amounts {
		c.ApplyAdjustment(nil, "plan-1", amount, "")
		production += amount // want `running total "production" maintained alongside ApplyAdjustment`
	}
	return production
}

type report struct {
	runningTotal float64
}

func shadowTotalField(c *planclient.Client, r *report, amount float64) {
	c.ApplyAdjustment(nil, "plan-1", amount, "")
	r.runningTotal += amount // want `running total "runningTotal" maintained alongside ApplyAdjustment`
}

// Valid cases - should NOT produce warnings

func validGetPlan(c *planclient.Client, id string) {
	c.GetPlan(nil, id)
}

func validAdjust(c *planclient.Client) {
	c.ApplyAdjustment(nil, "plan-1", 10, "restock")
	production := c.Production(nil, "plan-1")
	_ = production
}

func unrelatedTotal(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
