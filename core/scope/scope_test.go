package scope

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWithFrom(t *testing.T) {
	s := Scope{OutletID: "o1", Actor: "budi"}
	got := From(With(context.Background(), s))
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("From mismatch (-want +got):\n%s", diff)
	}
}

func TestFrom_Empty(t *testing.T) {
	if got := From(context.Background()); got.OutletID != "" || got.Actor != "" {
		t.Errorf("From(empty) = %+v, want zero", got)
	}
}

func TestOutlets(t *testing.T) {
	if got := (Scope{OutletID: "o1"}).Outlets(); !cmp.Equal(got, []string{"o1"}) {
		t.Errorf("Outlets = %v, want [o1]", got)
	}
	hq := Scope{OutletID: "hq", TargetOutletIDs: []string{"o1", "o2"}}
	if got := hq.Outlets(); !cmp.Equal(got, []string{"o1", "o2"}) {
		t.Errorf("Outlets = %v, want [o1 o2]", got)
	}
	if got := (Scope{}).Outlets(); got != nil {
		t.Errorf("Outlets(zero) = %v, want nil", got)
	}
}

func TestActorOr(t *testing.T) {
	if got := (Scope{}).ActorOr("system"); got != "system" {
		t.Errorf("ActorOr = %q, want system", got)
	}
	if got := (Scope{Actor: "ani"}).ActorOr("system"); got != "ani" {
		t.Errorf("ActorOr = %q, want ani", got)
	}
}

func TestSees(t *testing.T) {
	cases := []struct {
		scope  Scope
		outlet string
		want   bool
	}{
		{Scope{}, "o1", true},
		{Scope{OutletID: "o1"}, "o1", true},
		{Scope{OutletID: "o1"}, "o2", false},
		{Scope{OutletID: "hq", TargetOutletIDs: []string{"o1", "o2"}}, "o2", true},
		{Scope{OutletID: "hq", TargetOutletIDs: []string{"o1", "o2"}}, "hq", false},
	}
	for _, tc := range cases {
		if got := tc.scope.Sees(tc.outlet); got != tc.want {
			t.Errorf("%+v.Sees(%q) = %v, want %v", tc.scope, tc.outlet, got, tc.want)
		}
	}
}
