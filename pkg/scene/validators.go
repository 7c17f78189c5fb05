package scene

// Validator is a pure predicate run against a candidate edge before it is
// accepted. Validators must not mutate the candidate and must not panic;
// a violating validator is a defect in the registering code, not in the
// pipeline.
type Validator func(e *Edge) bool

// Pipeline is an ordered list of validators gating edge creation. The
// first validator returning false short-circuits the rest. A pipeline is
// owned by (or injected into) a scene; there is no package-level registry,
// which keeps rule sets testable in isolation.
type Pipeline struct {
	validators []Validator
}

// NewPipeline creates a pipeline with the given rules, in order.
func NewPipeline(validators ...Validator) *Pipeline {
	return &Pipeline{validators: validators}
}

// DefaultPipeline returns the stock rule set:
// opposite socket directions, no self-loops, type compatibility.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		ValidateOppositeDirections,
		ValidateNoSelfLoop,
		ValidateTypeCompatibility,
	)
}

// Register appends a rule to the end of the pipeline. Adding a rule never
// requires touching edge or socket code.
func (p *Pipeline) Register(v Validator) {
	p.validators = append(p.validators, v)
}

// Len returns the number of registered rules.
func (p *Pipeline) Len() int { return len(p.validators) }

// Validate runs the rules in order and reports whether the candidate
// passed all of them.
func (p *Pipeline) Validate(e *Edge) bool {
	for _, v := range p.validators {
		if !v(e) {
			return false
		}
	}
	return true
}

// ValidateOppositeDirections rejects candidates whose endpoints are both
// inputs or both outputs. An edge must join exactly one output and one
// input.
func ValidateOppositeDirections(e *Edge) bool {
	return e.start.isInput != e.end.isInput
}

// ValidateNoSelfLoop rejects candidates whose endpoints belong to the same
// node.
func ValidateNoSelfLoop(e *Edge) bool {
	return e.start.node != e.end.node
}

// ValidateTypeCompatibility rejects candidates where the output socket's
// primary type is not in the input socket's supported-type set. Candidates
// without exactly one output and one input endpoint pass through: direction
// errors are ValidateOppositeDirections' job.
func ValidateTypeCompatibility(e *Edge) bool {
	out, in := e.start, e.end
	if out.isInput {
		out, in = in, out
	}
	if out.isInput == in.isInput {
		return true
	}
	return in.Supports(out.typ)
}
