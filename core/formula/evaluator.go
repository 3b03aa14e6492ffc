package formula

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Function is a named callable exposed to formulas
type Function struct {
	Name string
	Fn   func(args ...any) (any, error)
}

// Program is a compiled formula
type Program interface {
	Run(env Env) (any, error)
}

// Evaluator is the expression-evaluation capability the engine runs on.
type Evaluator interface {
	Compile(formula string, functions []Function) (Program, error)
}

// ExprEvaluator evaluates formulas with github.com/expr-lang/expr.
// Unknown identifiers are rejected at compile time.
type ExprEvaluator struct{}

// Compile implements Evaluator
func (ExprEvaluator) Compile(formula string, functions []Function) (Program, error) {
	opts := make([]expr.Option, 0, len(functions)+1)
	opts = append(opts, expr.Env(Env{}))
	for _, f := range functions {
		opts = append(opts, expr.Function(f.Name, f.Fn))
	}
	program, err := expr.Compile(formula, opts...)
	if err != nil {
		return nil, err
	}
	return exprProgram{program: program}, nil
}

type exprProgram struct {
	program *vm.Program
}

func (p exprProgram) Run(env Env) (any, error) {
	return expr.Run(p.program, env)
}
