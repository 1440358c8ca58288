// Package planlint provides static analysis checks for the prodplan client API.
//
// This analyzer detects common mistakes when using the client package:
//   - Empty string literals passed as plan IDs to client calls
//   - A running production total maintained by hand alongside
//     ApplyAdjustment calls, which silently drifts from the ledger the
//     moment one code path forgets to update it
//
// Usage:
//
//	go install github.com/example/prodplan/cmd/plan-lint@latest
//	plan-lint ./...
package planlint

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer is the plan lint analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "planlint",
	Doc:      "checks for common prodplan client API mistakes",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// planIDMethods are client methods whose argument after the context is a
// plan ID.
var planIDMethods = map[string]bool{
	"GetPlan":         true,
	"Production":      true,
	"ApplyAdjustment": true,
	"ListAdjustments": true,
	"DeletePlan":      true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
		(*ast.FuncDecl)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.CallExpr:
			checkEmptyPlanID(pass, node)
		case *ast.FuncDecl:
			checkShadowTotal(pass, node)
		}
	})

	return nil, nil
}

// checkEmptyPlanID reports client calls whose plan ID argument is an empty
// string literal; the server rejects them at runtime.
func checkEmptyPlanID(pass *analysis.Pass, call *ast.CallExpr) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || !planIDMethods[sel.Sel.Name] {
		return
	}

	// Calls look like c.GetPlan(ctx, id, ...): the plan ID is the second
	// argument.
	if len(call.Args) < 2 {
		return
	}

	if lit, ok := call.Args[1].(*ast.BasicLit); ok && lit.Kind == token.STRING {
		if lit.Value == `""` || lit.Value == "``" {
			pass.Reportf(lit.Pos(), "%s called with empty plan ID literal - will fail at runtime", sel.Sel.Name)
		}
	}
}

// checkShadowTotal reports functions that call ApplyAdjustment while also
// maintaining a compound-assigned running total. The production figure must
// be read back from the ledger, not accumulated in parallel.
func checkShadowTotal(pass *analysis.Pass, fn *ast.FuncDecl) {
	if fn.Body == nil {
		return
	}

	appliesAdjustment := false
	var totals []*ast.AssignStmt

	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.CallExpr:
			if sel, ok := node.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "ApplyAdjustment" {
				appliesAdjustment = true
			}
		case *ast.AssignStmt:
			if node.Tok != token.ADD_ASSIGN && node.Tok != token.SUB_ASSIGN {
				return true
			}
			if len(node.Lhs) == 1 && isTotalName(lhsName(node.Lhs[0])) {
				totals = append(totals, node)
			}
		}
		return true
	})

	if !appliesAdjustment {
		return
	}

	for _, stmt := range totals {
		pass.Reportf(stmt.Pos(), "running total %q maintained alongside ApplyAdjustment - read Production() instead of accumulating a second copy", lhsName(stmt.Lhs[0]))
	}
}

// lhsName extracts the trailing identifier of an assignment target.
func lhsName(expr ast.Expr) string {
	switch node := expr.(type) {
	case *ast.Ident:
		return node.Name
	case *ast.SelectorExpr:
		return node.Sel.Name
	default:
		return ""
	}
}

func isTotalName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "production") || strings.Contains(lower, "total")
}
