package worker

import (
	"sync"

	"github.com/gogpu/fnplot/internal/plotlog"
)

// Worker evaluates the requests of one slot, strictly in arrival order,
// on its own goroutine.
//
// Posting never blocks: requests wait in an unbounded queue, so a slow or
// stuck expression only delays its own slot.
type Worker struct {
	index int

	mu     sync.Mutex
	queue  []*Request
	notify chan struct{} // one token while the queue is non-empty
}

func newWorker(index int) *Worker {
	return &Worker{
		index:  index,
		notify: make(chan struct{}, 1),
	}
}

// post enqueues req for evaluation.
func (w *Worker) post(req *Request) {
	w.mu.Lock()
	w.queue = append(w.queue, req)
	w.mu.Unlock()

	select {
	case w.notify <- struct{}{}:
	default:
		// A wake-up is already pending.
	}
}

// take removes and returns the queued requests in arrival order.
func (w *Worker) take() []*Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	q := w.queue
	w.queue = nil
	return q
}

// run is the worker's main loop. It delivers every response on replies
// and returns once done is closed.
func (w *Worker) run(replies chan<- *Response, done <-chan struct{}) {
	log := plotlog.L().With("slot", w.index)
	log.Debug("worker: started")
	defer log.Debug("worker: stopped")

	for {
		select {
		case <-done:
			return
		case <-w.notify:
		}
		for _, req := range w.take() {
			resp := Evaluate(req)
			if resp.Err != nil {
				log.Debug("worker: evaluation failed", "id", resp.ID, "err", resp.Err)
			}
			select {
			case replies <- resp:
			case <-done:
				return
			}
		}
	}
}
