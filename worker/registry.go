// Package worker evaluates clauses off the caller's goroutine.
//
// A Registry owns one long-lived Worker per slot, created on first use and
// reused until Close. Callers hand a Request to Evaluate and suspend only
// while waiting for the Response carrying the request's correlation id.
// Requests of one slot are evaluated in order; different slots run
// concurrently and may answer in any order. Nothing is shared between the
// caller and a worker: the input buffer moves into the request and the
// output buffer is freshly allocated by the worker.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/fnplot/internal/plotlog"
)

// ErrClosed is returned by Evaluate after Close.
var ErrClosed = errors.New("worker: registry closed")

// Registry maps slot indices to workers and routes responses back to
// their callers by correlation id.
//
// Thread safety: Registry is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	workers map[int]*Worker
	pending map[string]chan *Response

	replies chan *Response
	done    chan struct{}
	wg      sync.WaitGroup
	closed  atomic.Bool
}

// NewRegistry creates an empty registry and starts its reply dispatcher.
func NewRegistry() *Registry {
	r := &Registry{
		workers: make(map[int]*Worker),
		pending: make(map[string]chan *Response),
		replies: make(chan *Response, 16),
		done:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.dispatch()
	return r
}

// Evaluate sends req to the worker of slot req.Index and waits for its
// response. It assigns req.ID and takes ownership of req.Input.
//
// If ctx ends first Evaluate returns ctx.Err(); the worker still finishes
// the request and its late response is dropped.
func (r *Registry) Evaluate(ctx context.Context, req *Request) (*Response, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	req.ID = uuid.NewString()
	ch := make(chan *Response, 1)

	r.mu.Lock()
	r.pending[req.ID] = ch
	w := r.worker(req.Index)
	r.mu.Unlock()

	w.post(req)

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		r.forget(req.ID)
		return nil, ctx.Err()
	case <-r.done:
		r.forget(req.ID)
		return nil, ErrClosed
	}
}

// worker returns the worker of slot index, starting it on first use.
// r.mu must be held.
func (r *Registry) worker(index int) *Worker {
	if w, ok := r.workers[index]; ok {
		return w
	}
	w := newWorker(index)
	r.workers[index] = w
	go w.run(r.replies, r.done)
	return w
}

func (r *Registry) forget(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

// dispatch delivers each response to the caller waiting on its id.
func (r *Registry) dispatch() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case resp := <-r.replies:
			r.mu.Lock()
			ch, ok := r.pending[resp.ID]
			delete(r.pending, resp.ID)
			r.mu.Unlock()
			if !ok {
				plotlog.L().Debug("worker: dropping unclaimed response", "id", resp.ID, "slot", resp.Index)
				continue
			}
			ch <- resp
		}
	}
}

// Len returns the number of workers started so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}

// Close stops the dispatcher and tells every worker to exit once its
// current evaluation returns. Pending Evaluate calls fail with ErrClosed.
// Close does not wait for workers, since an expression that never
// terminates would block it forever.
func (r *Registry) Close() {
	if r.closed.Swap(true) {
		return
	}
	close(r.done)
	r.wg.Wait()
}
