package write

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nolanchai/graphframe/internal/compiler"
)

// State is one position in the write-plan lifecycle:
//
//	Described -> Compiled -> Previewed -> Committed -> Closed
//	                                   \-> Failed
type State string

const (
	Described State = "described"
	Compiled  State = "compiled"
	Previewed State = "previewed"
	Committed State = "committed"
	Closed    State = "closed"
	Failed    State = "failed"
)

// InvalidTransitionError reports an attempted lifecycle move that the
// current State does not permit.
type InvalidTransitionError struct {
	From State
	Want string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("write plan: cannot %s from state %q", e.Want, e.From)
}

// Op is anything a WritePlan can compile into one or more statements:
// NodeUpsert, RelUpsert, Patch, Delete, AdvancedMutation, or SchemaOp(s).
type Op interface {
	Compile() ([]compiler.Statement, error)
}

// singleOp adapts a single-statement compiler (Patch, Delete,
// AdvancedMutation, SchemaOp) to Op.
type singleOp struct {
	compile func() (compiler.Statement, error)
}

func (s singleOp) Compile() ([]compiler.Statement, error) {
	stmt, err := s.compile()
	if err != nil {
		return nil, err
	}
	return []compiler.Statement{stmt}, nil
}

// AsOp adapts any single-statement compile function into an Op, so a Patch,
// Delete, AdvancedMutation, or SchemaOp can be passed to NewWritePlan
// alongside batch ops like NodeUpsert and RelUpsert.
func AsOp(compile func() (compiler.Statement, error)) Op {
	return singleOp{compile: compile}
}

// Executor runs compiled statements against a backend and reports results.
// internal/driverexec provides the neo4j-go-driver-backed implementation;
// tests substitute a fake.
type Executor interface {
	Run(ctx context.Context, stmts []compiler.Statement) (ExecutionResult, error)
}

// ExecutionResult summarizes one Run call's effect.
type ExecutionResult struct {
	StatementsRun int
	NodesCreated  int
	NodesUpdated  int
	RelsCreated   int
	RelsUpdated   int
}

// WritePlan drives one op through the Described -> Compiled -> Previewed ->
// Committed -> Closed lifecycle. A WritePlan is not safe for concurrent use
// by multiple goroutines; callers needing that must serialize externally.
type WritePlan struct {
	mu    sync.Mutex
	id    string
	op    Op
	exec  Executor
	state State
	stmts []compiler.Statement
	err   error
}

// NewWritePlan describes a write plan for op, to be run through exec.
func NewWritePlan(op Op, exec Executor) *WritePlan {
	return &WritePlan{
		id:    uuid.NewString(),
		op:    op,
		exec:  exec,
		state: Described,
	}
}

// ID returns the plan's stable identity, generated once at construction.
func (p *WritePlan) ID() string { return p.id }

// State returns the plan's current lifecycle state.
func (p *WritePlan) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Compile renders the op's statements. Idempotent and repeatable prior to
// Commit: calling it again re-derives the same statements from the same Op,
// satisfying invariant I4 (deterministic recompilation).
func (p *WritePlan) Compile() ([]compiler.Statement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case Described, Compiled, Previewed:
	default:
		return nil, &InvalidTransitionError{From: p.state, Want: "compile"}
	}

	stmts, err := p.op.Compile()
	if err != nil {
		p.state = Failed
		p.err = err
		return nil, err
	}
	p.stmts = stmts
	if p.state == Described {
		p.state = Compiled
	}
	return append([]compiler.Statement(nil), stmts...), nil
}

// Preview returns the compiled statements without running them, compiling
// first if needed. Like Compile, it may be called repeatedly before Commit.
func (p *WritePlan) Preview(ctx context.Context) ([]compiler.Statement, error) {
	stmts, err := p.Compile()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Compiled {
		p.state = Previewed
	}
	return stmts, nil
}

// Commit runs the compiled statements exactly once. A second call returns
// InvalidTransitionError rather than re-executing (property P5: committing
// a plan a second time is a caller error, not a silent no-op or a repeat of
// side effects).
func (p *WritePlan) Commit(ctx context.Context) (ExecutionResult, error) {
	p.mu.Lock()
	switch p.state {
	case Described, Compiled, Previewed:
	default:
		p.mu.Unlock()
		return ExecutionResult{}, &InvalidTransitionError{From: p.state, Want: "commit"}
	}
	stmts := p.stmts
	p.mu.Unlock()

	if stmts == nil {
		var err error
		stmts, err = p.Compile()
		if err != nil {
			return ExecutionResult{}, err
		}
	}

	result, err := p.exec.Run(ctx, stmts)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = Failed
		p.err = err
		return ExecutionResult{}, err
	}
	p.state = Committed
	return result, nil
}

// Explain runs the compiled statements prefixed with EXPLAIN. It compiles
// the plan first if needed (Described moves to Compiled, or to Failed on a
// compile error); otherwise it leaves the lifecycle state unchanged.
func (p *WritePlan) Explain(ctx context.Context) (ExecutionResult, error) {
	return p.runPrefixed(ctx, "EXPLAIN ")
}

// Profile runs the compiled statements prefixed with PROFILE. It compiles
// the plan first if needed (Described moves to Compiled, or to Failed on a
// compile error); otherwise it leaves the lifecycle state unchanged.
func (p *WritePlan) Profile(ctx context.Context) (ExecutionResult, error) {
	return p.runPrefixed(ctx, "PROFILE ")
}

func (p *WritePlan) runPrefixed(ctx context.Context, prefix string) (ExecutionResult, error) {
	stmts, err := p.Compile()
	if err != nil {
		return ExecutionResult{}, err
	}
	prefixed := make([]compiler.Statement, len(stmts))
	for i, s := range stmts {
		prefixed[i] = compiler.Statement{Text: prefix + s.Text, Parameters: s.Parameters}
	}
	return p.exec.Run(ctx, prefixed)
}

// Close releases the plan. Closing a plan that was never committed is
// allowed and simply retires it; closing an already-closed plan is a no-op.
// A Failed plan stays Failed.
func (p *WritePlan) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Failed {
		p.state = Closed
	}
}

// Err returns the error that moved the plan into Failed, if any.
func (p *WritePlan) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
