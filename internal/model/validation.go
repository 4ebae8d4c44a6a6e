package model

// ValidationError marks a request payload rejected before any downstream
// call. Handlers map it to a 400; every other error is an internal failure.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
