package dispatch

import (
	"context"
	"testing"
)

type increment struct{ By int }

func (increment) ActionType() string { return "counter/increment" }

type plain struct{}

func TestIsFunc(t *testing.T) {
	if IsFunc(nil) {
		t.Fatal("nil must not be a function")
	}
	if IsFunc(increment{}) {
		t.Fatal("struct must not be a function")
	}
	if !IsFunc(func() {}) {
		t.Fatal("func literal must be a function")
	}
	if !IsFunc(Func(func(context.Context, any) (any, error) { return nil, nil })) {
		t.Fatal("named func type must be a function")
	}
	var nilFunc func()
	if !IsFunc(nilFunc) {
		t.Fatal("typed nil func is still a function value")
	}
}

func TestTypeOf(t *testing.T) {
	cases := map[string]any{
		"counter/increment": increment{By: 1},
		"thunk":             func() {},
		"<nil>":             nil,
		"dispatch.plain":    plain{},
		"string":            "raw",
	}
	for want, action := range cases {
		if got := TypeOf(action); got != want {
			t.Fatalf("TypeOf(%#v) = %q, want %q", action, got, want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(func() {}); got != KindThunk {
		t.Fatalf("KindOf(func) = %q, want %q", got, KindThunk)
	}
	if got := KindOf(increment{}); got != KindAction {
		t.Fatalf("KindOf(struct) = %q, want %q", got, KindAction)
	}
}
