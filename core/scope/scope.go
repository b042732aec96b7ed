// Package scope carries the active outlet, the outlet list used for
// multi-outlet queries and the acting user through context.Context.
package scope

import "context"

// Scope identifies who is operating and where.
type Scope struct {
	OutletID        string
	TargetOutletIDs []string
	Actor           string
}

type contextKey struct{}

// With attaches s to ctx.
func With(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// From returns the Scope attached to ctx, or the zero Scope.
func From(ctx context.Context) Scope {
	if s, ok := ctx.Value(contextKey{}).(Scope); ok {
		return s
	}
	return Scope{}
}

// Outlets returns the outlets a read query should cover: the explicit target
// list when set (HQ view), otherwise the active outlet alone.
func (s Scope) Outlets() []string {
	if len(s.TargetOutletIDs) > 0 {
		return s.TargetOutletIDs
	}
	if s.OutletID == "" {
		return nil
	}
	return []string{s.OutletID}
}

// ActorOr returns the actor, or fallback when none is set.
func (s Scope) ActorOr(fallback string) string {
	if s.Actor == "" {
		return fallback
	}
	return s.Actor
}

// Sees reports whether a record of outletID is inside the scope. An empty
// scope sees every outlet.
func (s Scope) Sees(outletID string) bool {
	outlets := s.Outlets()
	if len(outlets) == 0 {
		return true
	}
	for _, id := range outlets {
		if id == outletID {
			return true
		}
	}
	return false
}
