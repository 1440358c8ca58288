// Command plan-lint runs static analysis on prodplan client API usage.
//
// Usage:
//
//	plan-lint ./...
//
// This tool detects common mistakes when using the client package:
//   - Empty plan ID literals passed to client calls
//   - Hand-maintained running totals next to ApplyAdjustment calls
package main

import (
	"github.com/example/prodplan/pkg/planlint"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(planlint.Analyzer)
}
