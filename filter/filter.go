// Package filter compiles boolean expressions over bet rows for
// client-side narrowing of bet history and active bet listings.
//
// Expressions use the expr language with the BetRow fields in scope:
//
//	Price > 2.0 && SportName == "Horse Racing"
//	FillPercentage < 100 && CreatedAt > daysAgo(7)
package filter

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled expression ready for evaluation.
type Filter struct {
	expression string
	program    *vm.Program
}

// helper functions available inside expressions
func helperFunctions() map[string]any {
	return map[string]any{
		"now": func() time.Time { return time.Now() },
		"daysAgo": func(n int) time.Time {
			return time.Now().AddDate(0, 0, -n)
		},
		"hoursAgo": func(n int) time.Time {
			return time.Now().Add(-time.Duration(n) * time.Hour)
		},
	}
}

// Compile parses and compiles a filter expression.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // bet row fields
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the original expression.
func (f *Filter) Expression() string { return f.expression }

// Match evaluates the filter against a single row.
func (f *Filter) Match(row BetRow) (bool, error) {
	env := environment(row)
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Err: err}
	}
	// AsBool at compile time guarantees the assertion holds.
	return result.(bool), nil
}

// Apply returns the rows matching the filter, preserving order. Rows that
// fail evaluation are skipped.
func Apply(f *Filter, rows []BetRow) []BetRow {
	matched := make([]BetRow, 0, len(rows))
	for _, row := range rows {
		ok, err := f.Match(row)
		if err != nil {
			continue
		}
		if ok {
			matched = append(matched, row)
		}
	}
	return matched
}

func environment(row BetRow) map[string]any {
	env := helperFunctions()
	env["BetRequestID"] = row.BetRequestID
	env["SportName"] = row.SportName
	env["CompetitionName"] = row.CompetitionName
	env["FixtureName"] = row.FixtureName
	env["MarketName"] = row.MarketName
	env["SelectionName"] = row.SelectionName
	env["BetType"] = row.BetType
	env["Status"] = row.Status
	env["Price"] = row.Price
	env["Stake"] = row.Stake
	env["MatchedStake"] = row.MatchedStake
	env["FillPercentage"] = row.FillPercentage
	env["FixtureStartDate"] = row.FixtureStartDate
	env["CreatedAt"] = row.CreatedAt
	return env
}
