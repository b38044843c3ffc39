package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gogpu/fnplot/clause"
)

// =============================================================================
// Worker
// =============================================================================

func TestWorkerPreservesOrder(t *testing.T) {
	w := newWorker(0)
	replies := make(chan *Response)
	done := make(chan struct{})
	defer close(done)

	ids := []string{"a", "b", "c", "d"}
	for i, id := range ids {
		w.post(&Request{ID: id, Kind: clause.Linear, Exprs: []string{fmt.Sprint(i)}, Input: []float64{0}})
	}
	go w.run(replies, done)

	for i, id := range ids {
		resp := <-replies
		if resp.ID != id {
			t.Fatalf("response %d has id %q, want %q", i, resp.ID, id)
		}
		if resp.Output[1] != float64(i) {
			t.Errorf("response %q = %v, want %d", id, resp.Output[1], i)
		}
	}
}

// =============================================================================
// Registry
// =============================================================================

func TestRegistryEvaluate(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	resp, err := r.Evaluate(context.Background(), &Request{
		Index: 0,
		Kind:  clause.Linear,
		Exprs: []string{"x * x"},
		Input: []float64{-2, 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Err != nil {
		t.Fatal(resp.Err)
	}
	if resp.ID == "" {
		t.Error("response has no correlation id")
	}
	if resp.Output[1] != 4 || resp.Output[3] != 9 {
		t.Errorf("Output = %v", resp.Output)
	}
}

func TestRegistryLazyWorkers(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	if n := r.Len(); n != 0 {
		t.Fatalf("Len() = %d before any request, want 0", n)
	}
	ctx := context.Background()
	for _, index := range []int{0, 3, 0, 3, 0} {
		if _, err := r.Evaluate(ctx, &Request{Index: index, Kind: clause.Linear, Exprs: []string{"x"}, Input: []float64{1}}); err != nil {
			t.Fatal(err)
		}
	}
	if n := r.Len(); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}
}

func TestRegistryConcurrentSlots(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	const slots = 8
	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, slots*rounds)
	for i := 0; i < slots; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			for k := 0; k < rounds; k++ {
				want := float64(index*100 + k)
				resp, err := r.Evaluate(context.Background(), &Request{
					Index: index,
					Kind:  clause.Linear,
					Exprs: []string{fmt.Sprintf("x + %d", index*100)},
					Input: []float64{float64(k)},
				})
				if err != nil {
					errs <- err
					return
				}
				if resp.Index != index || resp.Output[1] != want {
					errs <- fmt.Errorf("slot %d round %d: got index %d value %v", index, k, resp.Index, resp.Output[1])
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRegistryFaultIsolated(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	var bad, good *Response
	var badErr, goodErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		bad, badErr = r.Evaluate(context.Background(), &Request{Index: 0, Kind: clause.Linear, Exprs: []string{"undefined_name(x)"}, Input: []float64{0}})
	}()
	go func() {
		defer wg.Done()
		good, goodErr = r.Evaluate(context.Background(), &Request{Index: 1, Kind: clause.Linear, Exprs: []string{"x"}, Input: []float64{5}})
	}()
	wg.Wait()

	if badErr != nil || goodErr != nil {
		t.Fatalf("transport errors: %v, %v", badErr, goodErr)
	}
	if bad.Err == nil || bad.Output != nil {
		t.Errorf("failing slot: Err = %v, Output = %v", bad.Err, bad.Output)
	}
	if good.Err != nil || good.Output[1] != 5 {
		t.Errorf("sibling slot: Err = %v, Output = %v", good.Err, good.Output)
	}
}

func TestRegistryCanceledWaitDropsLateResponse(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	slow := make([]float64, 200000)
	for i := range slow {
		slow[i] = float64(i)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Evaluate(ctx, &Request{Index: 0, Kind: clause.Linear, Exprs: []string{"sin(x) * cos(x) + sqrt(x)"}, Input: slow})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Evaluate() error = %v, want context.Canceled", err)
	}

	// The next request on the same slot must get its own answer, not the
	// abandoned one.
	resp, err := r.Evaluate(context.Background(), &Request{Index: 0, Kind: clause.Linear, Exprs: []string{"7"}, Input: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Output) != 2 || resp.Output[1] != 7 {
		t.Errorf("Output = %v, want [0 7]", resp.Output)
	}
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Evaluate(context.Background(), &Request{Kind: clause.Linear, Exprs: []string{"x"}, Input: []float64{0}}); err != nil {
		t.Fatal(err)
	}
	r.Close()
	r.Close()

	_, err := r.Evaluate(context.Background(), &Request{Kind: clause.Linear, Exprs: []string{"x"}, Input: []float64{0}})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Evaluate() after Close error = %v, want ErrClosed", err)
	}
}
