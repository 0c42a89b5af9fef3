package config

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
)

// conditionVar is the name under which a configuration is visible to conditions.
const conditionVar = "config"

func newConditionEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(conditionVar, cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
}

// compileCondition turns a CEL expression into a domain.Condition.
func compileCondition(env *cel.Env, expr string) (domain.Condition, error) {
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, zerr.With(zerr.Wrap(iss.Err(), domain.ErrConfigParseFailed.Error()), "condition", expr)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "condition", expr)
	}

	return func(cfg domain.Configuration) (bool, error) {
		out, _, err := prg.Eval(map[string]any{conditionVar: map[string]any(cfg)})
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, domain.ErrConditionFailed.Error()), "condition", expr)
		}
		b, ok := out.Value().(bool)
		if !ok {
			return false, zerr.With(zerr.Wrap(domain.ErrConditionFailed, fmt.Sprintf("condition returned %T", out.Value())), "condition", expr)
		}
		return b, nil
	}, nil
}
