package param

// ProgramCache stores compiled expression programs keyed by expression
// strings. Installing one on an evaluator amortises compilation across
// repeated dynamic-default reads.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
