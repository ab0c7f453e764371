package toolbox

import (
	"fmt"
	"math"
)

// Validate checks raw arguments against a tool's Spec and returns a
// normalized copy: required parameters must be present, values must match
// their declared type, argument names not in the Spec are rejected, and
// defaults are filled in for absent optional parameters. Validation performs
// no I/O; it is the single place argument correctness is enforced.
func Validate(spec Spec, raw map[string]any) (Args, error) {
	declared := make(map[string]Param, len(spec.Params))
	for _, p := range spec.Params {
		declared[p.Name] = p
	}

	for name := range raw {
		if _, ok := declared[name]; !ok {
			return nil, &ValidationError{Param: name, Reason: "not declared by tool"}
		}
	}

	args := make(Args, len(spec.Params))

	for _, p := range spec.Params {
		v, present := raw[p.Name]

		if !present {
			if p.Required {
				return nil, &ValidationError{Param: p.Name, Reason: "required argument missing"}
			}
			if p.Default != nil {
				def, err := coerce(p.Default, p.Type)
				if err != nil {
					return nil, &ValidationError{Param: p.Name, Reason: err.Error()}
				}
				args[p.Name] = def
			}

			continue
		}

		coerced, err := coerce(v, p.Type)
		if err != nil {
			return nil, &ValidationError{Param: p.Name, Reason: err.Error()}
		}
		args[p.Name] = coerced
	}

	return args, nil
}

// coerce converts a raw value to the Go representation of the declared type.
// JSON-decoded numbers arrive as float64, so integral float64 values are
// accepted for int parameters.
func coerce(v any, t ParamType) (any, error) {
	switch t {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case TypeInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if math.Trunc(n) != n {
				return nil, fmt.Errorf("expected int, got %v", n)
			}
			return int(n), nil
		default:
			return nil, fmt.Errorf("expected int, got %T", v)
		}

	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		default:
			return nil, fmt.Errorf("expected number, got %T", v)
		}

	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unsupported parameter type %q", t)
	}
}
