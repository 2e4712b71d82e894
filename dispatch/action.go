package dispatch

import (
	"fmt"
	"reflect"
)

// Action kinds reported by [KindOf].
const (
	KindThunk  = "thunk"
	KindAction = "action"
)

// Typed is implemented by plain actions that carry their own type name.
type Typed interface {
	ActionType() string
}

// IsFunc reports whether v is an invocable value, i.e. a thunk candidate.
func IsFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// KindOf returns KindThunk for function values and KindAction otherwise.
func KindOf(action any) string {
	if IsFunc(action) {
		return KindThunk
	}
	return KindAction
}

// TypeOf returns a stable name for action, used as the label for logs,
// metrics, spans and rate-limit policies.
func TypeOf(action any) string {
	switch a := action.(type) {
	case nil:
		return "<nil>"
	case Typed:
		return a.ActionType()
	}
	if IsFunc(action) {
		return KindThunk
	}
	return fmt.Sprintf("%T", action)
}
