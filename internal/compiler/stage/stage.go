// Package stage provides the small compile-pipeline primitive used by the
// Write Planner's node upsert compilation, adapted from the teacher's
// internal/pipeline.Pipeline and internal/backend.ExecutionProcessor: a
// fixed sequence of steps threading a single mutable context, run in order,
// stopping at the first error.
package stage

// Stage performs one step of a statement compilation against ctx, returning
// an error that aborts the remaining stages.
type Stage[T any] func(ctx *T) error

// Run executes stages in order against ctx, stopping and returning the
// first error encountered. Unlike the teacher's Pipeline.Run (which
// deliberately continues after an error to collect every diagnostic for an
// LSP client), a statement compile has no use for partial results once one
// stage fails: spec.md's invariant I5 means a failed compile must leave no
// residual, so we stop immediately.
func Run[T any](ctx *T, stages ...Stage[T]) error {
	for _, s := range stages {
		if err := s(ctx); err != nil {
			return err
		}
	}
	return nil
}
