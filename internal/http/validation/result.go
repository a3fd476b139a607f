package validation

// Result is the outcome of a validation call: a fresh, field-scoped error map.
// Valid is true exactly when Errors is empty; newResult enforces the invariant
// so callers can rely on either field.
type Result struct {
	Valid  bool
	Errors map[string]string
}

func newResult(errs map[string]string) Result {
	if len(errs) == 0 {
		return Result{Valid: true, Errors: map[string]string{}}
	}
	return Result{Valid: false, Errors: errs}
}

// merge combines field error maps; later maps do not overwrite earlier fields.
func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
	}
	return out
}
