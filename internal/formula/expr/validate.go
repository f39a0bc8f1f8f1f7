package expr

import "strings"

// Validate checks expression against its declared variable list: the
// expression must compile, every declared variable must occur as an
// identifier token and every identifier must be declared.
func Validate(expression string, declared []string) error {
	prog, err := Compile(expression)
	if err != nil {
		return err
	}

	used := make(map[string]bool, len(prog.idents))
	for _, id := range prog.idents {
		used[id] = true
	}

	declaredSet := make(map[string]bool, len(declared))
	for _, v := range declared {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		declaredSet[v] = true
		if !used[v] {
			return &EvaluationError{
				Expression: expression,
				Identifier: v,
				Pos:        -1,
				Reason:     "declared variable does not appear in expression",
			}
		}
	}

	for _, id := range prog.idents {
		if !declaredSet[id] {
			return &EvaluationError{
				Expression: expression,
				Identifier: id,
				Pos:        strings.Index(expression, id),
				Reason:     "identifier is not a declared variable",
			}
		}
	}
	return nil
}
