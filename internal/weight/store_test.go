package weight

import (
	"sync"
	"testing"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
)

func TestGetSetUpdate(t *testing.T) {
	s := New()
	key := Key{Kind: "Pokt", Chain: chain.ID("eip155:1")}

	if got := s.Get(key); got != 0 {
		t.Fatalf("Get on unset key = %v, want 0", got)
	}

	s.Set(key, 10)
	if got := s.Get(key); got != 10 {
		t.Fatalf("Get = %v, want 10", got)
	}

	s.Update(key, func(cur float64) float64 { return cur * 0.5 })
	if got := s.Get(key); got != 5 {
		t.Fatalf("Get after update = %v, want 5", got)
	}
}

func TestInitDoesNotClobber(t *testing.T) {
	s := New()
	key := Key{Kind: "Infura", Chain: chain.ID("eip155:1")}
	s.Init(key, 10)
	s.Set(key, 3)
	s.Init(key, 10) // must be a no-op, cell already exists
	if got := s.Get(key); got != 3 {
		t.Fatalf("Get = %v, want 3 (Init must not clobber)", got)
	}
}

func TestNeverNegative(t *testing.T) {
	s := New()
	key := Key{Kind: "Quicknode", Chain: chain.ID("eip155:1")}
	s.Set(key, 1)
	s.Update(key, func(cur float64) float64 {
		if cur-2 < 0 {
			return 0
		}
		return cur - 2
	})
	if got := s.Get(key); got < 0 {
		t.Fatalf("weight went negative: %v", got)
	}
}

func TestConcurrentUpdate(t *testing.T) {
	s := New()
	key := Key{Kind: "Publicnode", Chain: chain.ID("eip155:1")}
	s.Set(key, 0)

	var wg sync.WaitGroup
	const n = 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(key, func(cur float64) float64 { return cur + 1 })
		}()
	}
	wg.Wait()
	if got := s.Get(key); got != n {
		t.Fatalf("Get = %v, want %v (lost updates under race)", got, n)
	}
}

func TestForChain(t *testing.T) {
	s := New()
	c1 := chain.ID("eip155:1")
	c2 := chain.ID("eip155:56")
	s.Set(Key{Kind: "Pokt", Chain: c1}, 10)
	s.Set(Key{Kind: "Infura", Chain: c1}, 20)
	s.Set(Key{Kind: "Binance", Chain: c2}, 30)

	seen := map[string]float64{}
	s.ForChain(c1, func(kind string, w float64) { seen[kind] = w })
	if len(seen) != 2 {
		t.Fatalf("ForChain returned %d entries, want 2", len(seen))
	}
	if seen["Pokt"] != 10 || seen["Infura"] != 20 {
		t.Fatalf("unexpected weights: %+v", seen)
	}
}
