// Package assistant models the "current assistant" signal that tool stores
// react to.
package assistant

import (
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/observable"
)

// Assistant identifies the assistant a user is talking to.
type Assistant struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Empty reports whether no assistant has been selected yet.
func (a Assistant) Empty() bool { return a.ID == "" }

// Current is the observable current-assistant signal.
type Current = observable.Writable[Assistant]

// NewCurrent returns a signal holding the empty assistant.
func NewCurrent() *Current {
	return observable.NewWritable(Assistant{})
}
