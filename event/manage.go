package event

import (
	"fmt"
	"sync"
)

// Manage 按事件类型分发给观察者，观察者在独立的 goroutine 中执行
type Manage struct {
	mu       sync.Mutex
	Observer map[Type][]ObserverFunc
}

var _ Subject = (*Manage)(nil)

func NewManage() *Manage {
	return &Manage{Observer: map[Type][]ObserverFunc{}}
}

func (e *Manage) Register(et Type, observer ObserverFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Observer == nil {
		e.Observer = map[Type][]ObserverFunc{}
	}
	e.Observer[et] = append(e.Observer[et], observer)
}

func (e *Manage) Upload(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, fn := range e.Observer[event.Type] {
		go fn(event)
	}
}

const (
	Error     = "error"
	RequestID = "request_id"
	Start     = "start"
	End       = "end"
)

// FulfilledEvent 请求成功的事件
func FulfilledEvent(key, id string, start, end any) Event {
	return Event{
		Type: RequestFulfilled,
		Key:  key,
		Value: map[string]any{
			RequestID: id,
			Start:     start,
			End:       end,
		},
	}
}

// RejectedEvent 请求失败的事件，错误信息放在 Value[Error]
func RejectedEvent(key, id string, start, end any, err error) Event {
	e := FulfilledEvent(key, id, start, end)
	e.Type = RequestRejected
	e.Value[Error] = err.Error()
	return e
}

func ValueError(data map[string]any) error {
	if data == nil {
		return nil
	}
	if err, ok := data[Error]; ok {
		return fmt.Errorf("%v", err)
	}
	return nil
}
