package trie

import "testing"

func TestNodeMapPutGet(t *testing.T) {
	m := NewNodeMap[string]()
	m.Put(1, "one")
	m.Put(2, "two")
	m.Put(3, "three")

	if v, ok := m.Get(2); !ok || v != "two" {
		t.Fatalf("got %q, %v", v, ok)
	}
	if _, ok := m.Get(99); ok {
		t.Fatal("expected miss for absent key")
	}
	if m.Size() != 3 {
		t.Fatalf("size = %d, want 3", m.Size())
	}
}

func TestNodeMapOverwriteDoesNotGrowSize(t *testing.T) {
	m := NewNodeMap[int]()
	m.Put(5, 10)
	m.Put(5, 20)
	if m.Size() != 1 {
		t.Fatalf("size = %d, want 1", m.Size())
	}
	if v, _ := m.Get(5); v != 20 {
		t.Fatalf("got %d, want 20", v)
	}
}

func TestNodeMapPutIfAbsent(t *testing.T) {
	m := NewNodeMap[int]()
	v, inserted := m.PutIfAbsent(1, 100)
	if !inserted || v != 100 {
		t.Fatalf("got %d, %v", v, inserted)
	}
	v, inserted = m.PutIfAbsent(1, 200)
	if inserted || v != 100 {
		t.Fatalf("expected existing value preserved, got %d, %v", v, inserted)
	}
}

func TestNodeMapRemoveThenProbePastTombstone(t *testing.T) {
	m := NewNodeMap[int]()
	for i := int32(0); i < 20; i++ {
		m.Put(i, int(i)*10)
	}
	if !m.Remove(5) {
		t.Fatal("expected remove to report found")
	}
	if _, ok := m.Get(5); ok {
		t.Fatal("removed key should no longer be found")
	}
	// Keys inserted after the tombstone must still be reachable.
	for i := int32(0); i < 20; i++ {
		if i == 5 {
			continue
		}
		if v, ok := m.Get(i); !ok || v != int(i)*10 {
			t.Fatalf("key %d: got %d, %v", i, v, ok)
		}
	}
	if m.Size() != 19 {
		t.Fatalf("size = %d, want 19", m.Size())
	}
}

func TestNodeMapGrowsAndKeepsAllEntries(t *testing.T) {
	m := NewNodeMap[int]()
	const n = 500
	for i := int32(0); i < n; i++ {
		m.Put(i, int(i))
	}
	if m.Size() != n {
		t.Fatalf("size = %d, want %d", m.Size(), n)
	}
	for i := int32(0); i < n; i++ {
		if v, ok := m.Get(i); !ok || v != int(i) {
			t.Fatalf("key %d: got %d, %v", i, v, ok)
		}
	}
}

func TestNodeMapForEachIsStableWithoutMutation(t *testing.T) {
	m := NewNodeMap[int]()
	for i := int32(0); i < 30; i++ {
		m.Put(i, int(i))
	}
	var first, second []int32
	m.ForEachKey(func(k int32) { first = append(first, k) })
	m.ForEachKey(func(k int32) { second = append(second, k) })
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order differs at %d: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestNodeMapCompactReclaimsTombstones(t *testing.T) {
	m := NewNodeMap[int]()
	for i := int32(0); i < 50; i++ {
		m.Put(i, int(i))
	}
	for i := int32(0); i < 40; i++ {
		m.Remove(i)
	}
	m.Compact()
	if m.Size() != 10 {
		t.Fatalf("size = %d, want 10", m.Size())
	}
	for i := int32(40); i < 50; i++ {
		if v, ok := m.Get(i); !ok || v != int(i) {
			t.Fatalf("key %d: got %d, %v", i, v, ok)
		}
	}
}

func TestNextPrimeIsPrimeAndAtLeastN(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 7, 8, 100, 997, 998} {
		p := nextPrime(n)
		if p < n {
			t.Fatalf("nextPrime(%d) = %d, want >= %d", n, p, n)
		}
		if !isPrime(p) {
			t.Fatalf("nextPrime(%d) = %d is not prime", n, p)
		}
	}
}
