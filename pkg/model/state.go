package model

// RequestStatus tags the lifecycle of the most recent submission.
type RequestStatus string

const (
	StatusIdle      RequestStatus = "idle"
	StatusPending   RequestStatus = "pending"
	StatusSucceeded RequestStatus = "succeeded"
	StatusFailed    RequestStatus = "failed"
)

// Panel identifies the single result panel a renderer shows for a state.
type Panel string

const (
	PanelNone  Panel = "none"
	PanelPrice Panel = "price"
	PanelError Panel = "error"
)

// RequestState is a tagged union: Price is only meaningful when succeeded and
// Message only when failed. Generation identifies the submission that produced
// the state (zero while idle).
type RequestState struct {
	Status     RequestStatus `json:"status"`
	Price      string        `json:"price,omitempty"`
	Message    string        `json:"message,omitempty"`
	Generation uint64        `json:"generation"`
}

// Idle is the state of a controller that has not submitted yet.
func Idle() RequestState {
	return RequestState{Status: StatusIdle}
}

// Pending marks submission gen as in flight.
func Pending(gen uint64) RequestState {
	return RequestState{Status: StatusPending, Generation: gen}
}

// Succeeded records the formatted price returned for submission gen.
func Succeeded(gen uint64, price string) RequestState {
	return RequestState{Status: StatusSucceeded, Price: price, Generation: gen}
}

// Failed records the error message for submission gen.
func Failed(gen uint64, message string) RequestState {
	return RequestState{Status: StatusFailed, Message: message, Generation: gen}
}

// IsPending reports whether a submission is in flight.
func (s RequestState) IsPending() bool {
	return s.Status == StatusPending
}

// Panel maps the state onto exactly one visible panel.
func (s RequestState) Panel() Panel {
	switch s.Status {
	case StatusSucceeded:
		return PanelPrice
	case StatusFailed:
		return PanelError
	default:
		return PanelNone
	}
}

// Valid reports whether the state respects the tagged union shape.
func (s RequestState) Valid() bool {
	switch s.Status {
	case StatusIdle:
		return s.Price == "" && s.Message == "" && s.Generation == 0
	case StatusPending:
		return s.Price == "" && s.Message == ""
	case StatusSucceeded:
		return s.Price != "" && s.Message == ""
	case StatusFailed:
		return s.Price == "" && s.Message != ""
	default:
		return false
	}
}
