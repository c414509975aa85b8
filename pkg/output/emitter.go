package output

import (
	"errors"

	"github.com/hrekt/hrekt/pkg/analyzer"
)

// Emitter writes one record per surviving candidate. Implementations are
// safe for concurrent use by all workers.
type Emitter interface {
	Emit(r *analyzer.MatchResult) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(r *analyzer.MatchResult) error

// Emit calls f(r).
func (f EmitterFunc) Emit(r *analyzer.MatchResult) error {
	return f(r)
}

// Multi fans a result out to several emitters and joins their errors.
func Multi(emitters ...Emitter) Emitter {
	return EmitterFunc(func(r *analyzer.MatchResult) error {
		var errs []error
		for _, e := range emitters {
			if err := e.Emit(r); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
