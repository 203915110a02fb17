package emotion

import (
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestDominant_Empty(t *testing.T) {
	is := is.New(t)

	w := NewWindow(20)
	is.Equal(w.Dominant(), Neutral) // empty window defaults to neutral
	is.Equal(w.Len(), 0)
}

func TestDominant_MostFrequent(t *testing.T) {
	is := is.New(t)

	w := NewWindow(20)
	w.Observe("happy")
	w.Observe("happy")
	w.Observe("sad")

	is.Equal(w.Dominant(), "happy")
	is.Equal(w.Len(), 3)
}

func TestDominant_TieBreaksToFirstMaximal(t *testing.T) {
	is := is.New(t)

	// On an exact tie the label that first reaches the maximal count in
	// window order wins.
	w := NewWindow(20)
	w.Observe("happy")
	w.Observe("sad")
	is.Equal(w.Dominant(), "happy")

	w = NewWindow(20)
	w.Observe("sad")
	w.Observe("happy")
	w.Observe("happy")
	w.Observe("sad")
	is.Equal(w.Dominant(), "happy") // happy reaches count 2 before sad does

	// Same multiset, different order: sad completes its count first.
	w = NewWindow(20)
	w.Observe("sad")
	w.Observe("happy")
	w.Observe("sad")
	w.Observe("happy")
	is.Equal(w.Dominant(), "sad")
}

func TestObserve_EvictsBeyondCapacity(t *testing.T) {
	is := is.New(t)

	w := NewWindow(3)
	w.Observe("anger")
	w.Observe("anger")
	w.Observe("happy")
	w.Observe("happy")
	w.Observe("happy")

	// The two anger samples fell out of the window.
	is.Equal(w.Dominant(), "happy")
	is.Equal(w.Len(), 3)
}

func TestObserve_OldSamplesHaveNoInfluence(t *testing.T) {
	is := is.New(t)

	w := NewWindow(20)
	for i := 0; i < 20; i++ {
		w.Observe("sad")
	}
	for i := 0; i < 20; i++ {
		w.Observe("happy")
	}

	is.Equal(w.Dominant(), "happy") // all sad samples evicted
	is.Equal(w.Len(), 20)
}

func TestWindow_ConcurrentObserveAndDominant(t *testing.T) {
	w := NewWindow(20)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			w.Observe("happy")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = w.Dominant()
		}
	}()
	wg.Wait()

	if got := w.Dominant(); got != "happy" {
		t.Fatalf("expected happy, got %s", got)
	}
}
