package action

import "sync"

type Dispatcher interface {
	Dispatch(a Action)
}

// Recorder keeps every dispatched action. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
}

func (r *Recorder) Dispatch(a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, a.Type())
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}
