package module

import (
	"sync"
	"testing"
)

type portSet struct {
	Name string
	ID   int
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := PortsAs[portSet]("missing"); ok {
		t.Fatalf("missing name must report ok=false")
	}

	Register("nlu", portSet{Name: "a", ID: 1})
	Register("nlu", portSet{Name: "b", ID: 2})
	got, ok := PortsAs[portSet]("nlu")
	if !ok || got.Name != "b" {
		t.Fatalf("Register must overwrite, got %+v %v", got, ok)
	}
	if _, ok := PortsAs[int]("nlu"); ok {
		t.Fatalf("type mismatch must report ok=false")
	}

	Reset()
	if len(Names()) != 0 {
		t.Fatalf("Reset left %v", Names())
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			Register("turns", portSet{Name: "k", ID: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_, _ = PortsAs[portSet]("turns")
			_ = Names()
		}
	}()
	wg.Wait()

	if got, ok := PortsAs[portSet]("turns"); !ok || got.ID != n-1 {
		t.Fatalf("final value = %+v %v", got, ok)
	}
}
