package event

type Type int

const (
	RequestFulfilled Type = iota + 1
	RequestRejected
)

func (t Type) String() string {
	switch t {
	case RequestFulfilled:
		return "fulfilled"
	case RequestRejected:
		return "rejected"
	}
	return "unknown"
}

type Event struct {
	Type  Type
	Key   string
	Value map[string]any
}

type ObserverFunc func(e Event)

type Subject interface {
	Register(t Type, observer ObserverFunc)
	Upload(event Event)
}
