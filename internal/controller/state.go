// Package controller drives a conversion lookup through its lifecycle
package controller

import "fxconvert/internal/client"

// State is one of Idle, Loading, Succeeded or Failed
type State interface {
	isState()
}

// Idle is the state before the first submission
type Idle struct{}

// Loading holds the lookup currently in flight
type Loading struct {
	Request client.ConversionRequest
}

// Succeeded holds the result of the last lookup
type Succeeded struct {
	Result client.ConversionResult
}

// Failed holds the error of the last lookup
type Failed struct {
	Err *client.ConversionError
}

func (Idle) isState()      {}
func (Loading) isState()   {}
func (Succeeded) isState() {}
func (Failed) isState()    {}

// IsLoading reports whether a lookup is in flight
func IsLoading(s State) bool {
	_, ok := s.(Loading)
	return ok
}
