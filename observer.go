package fetch

import "time"

// Event describes one completed Fetch call. Exactly one of Response and Err
// is set.
type Event struct {
	Method   Method
	URL      string
	Duration time.Duration
	Response *Response
	Err      error
}

// Observer is notified synchronously after every fetch made by a Client it
// is registered with.
type Observer interface {
	ObserveFetch(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// ObserveFetch calls f(e).
func (f ObserverFunc) ObserveFetch(e Event) {
	f(e)
}
