package lifecycle

import "github.com/yildizm/SigSum/internal/signal"

// Status names the variant a State holds
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is one of Idle, Loading, Succeeded or Failed
type State interface {
	Status() Status
	isState()
}

// Idle is the initial state: no result, no error, not loading
type Idle struct{}

// Loading means a request is in flight
type Loading struct{}

// Succeeded holds the latest analysis
type Succeeded struct {
	Result signal.Analysis
}

// Failed holds the message describing the latest failure
type Failed struct {
	Message string
}

func (Idle) Status() Status      { return StatusIdle }
func (Loading) Status() Status   { return StatusLoading }
func (Succeeded) Status() Status { return StatusSucceeded }
func (Failed) Status() Status    { return StatusFailed }

func (Idle) isState()      {}
func (Loading) isState()   {}
func (Succeeded) isState() {}
func (Failed) isState()    {}
