package view

import "errors"

type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateLoaded  State = "loaded"
)

// Loadable is one independently fetched part of a view. A loaded value
// with no records is Empty, which is distinct from an error.
type Loadable[T any] struct {
	State State  `json:"state"`
	Error string `json:"error,omitempty"`
	Data  T      `json:"data"`
	Empty bool   `json:"empty"`
}

func Loading[T any]() Loadable[T] {
	return Loadable[T]{State: StateLoading}
}

func Failed[T any](err error) Loadable[T] {
	message := "Request failed"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return Loadable[T]{State: StateError, Error: message}
}

func Loaded[T any](data T, empty bool) Loadable[T] {
	return Loadable[T]{State: StateLoaded, Data: data, Empty: empty}
}

// LoadedList marks the list empty when it has no items. A nil list is
// replaced by an empty one.
func LoadedList[E any](items []E) Loadable[[]E] {
	if items == nil {
		items = []E{}
	}
	return Loaded(items, len(items) == 0)
}

func (l Loadable[T]) IsLoaded() bool {
	return l.State == StateLoaded
}

// Result returns the data or the recorded failure.
func (l Loadable[T]) Result() (T, error) {
	switch l.State {
	case StateLoaded:
		return l.Data, nil
	case StateError:
		var zero T
		return zero, errors.New(l.Error)
	default:
		var zero T
		return zero, errors.New("still loading")
	}
}
