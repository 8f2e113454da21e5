package warehouse

import (
	"sync"
	"testing"
)

type lkA struct{}
type lkB struct{}
type lkC struct{}

func TestLookupGetGroupingInterns(t *testing.T) {
	l := NewEntityTableLookup()
	a := NewArchetype(TypeOf[lkA]())

	g1 := l.GetGrouping(a)
	g2 := l.GetGrouping(a)

	if g1 != g2 {
		t.Fatalf("GetGrouping must return the identical instance for an equal archetype")
	}
	if l.Count() != 1 {
		t.Fatalf("expected one interned grouping, got %d", l.Count())
	}
}

func TestLookupFindAndContains(t *testing.T) {
	l := NewEntityTableLookup()
	a := NewArchetype(TypeOf[lkA](), TypeOf[lkB]())

	if l.Contains(a.ComponentBitmask()) {
		t.Fatalf("nothing interned yet, Contains should be false")
	}
	l.GetGrouping(a)
	if !l.Contains(a.ComponentBitmask()) {
		t.Fatalf("Contains should be true after interning")
	}
	if l.Find(a.ComponentBitmask()) == nil {
		t.Fatalf("Find should return the interned grouping")
	}
}

func TestLookupGetSubAndSupergrouping(t *testing.T) {
	l := NewEntityTableLookup()
	compA, compB := TypeOf[lkA](), TypeOf[lkB]()
	base := NewArchetype(compA)

	super := l.GetSupergrouping(base, compB)
	if !super.Key().Equal(NewArchetype(compA, compB)) {
		t.Fatalf("supergrouping key should be base plus the component")
	}

	sub := l.GetSubgrouping(super.Key(), compB)
	if !sub.Key().Equal(base) {
		t.Fatalf("subgrouping key should be the supergrouping minus the component")
	}
	// Subgrouping of the base archetype should resolve back to the same
	// interned grouping GetGrouping(base) returns.
	if sub != l.GetGrouping(base) {
		t.Fatalf("GetSubgrouping must intern into the same entry as GetGrouping")
	}
}

func TestLookupAtAndCopyTo(t *testing.T) {
	l := NewEntityTableLookup()
	a := NewArchetype(TypeOf[lkA]())
	b := NewArchetype(TypeOf[lkB]())
	l.GetGrouping(a)
	l.GetGrouping(b)

	g, err := l.At(0)
	if err != nil || !g.Key().Equal(a) {
		t.Fatalf("At(0) should return the first-interned grouping, err=%v", err)
	}

	if _, err := l.At(2); err == nil {
		t.Fatalf("At beyond Count should return an error")
	}

	dst := make([]EntityTableGrouping, 2)
	n, err := l.CopyTo(dst, 0)
	if err != nil || n != 2 {
		t.Fatalf("CopyTo should copy both entries, got n=%d err=%v", n, err)
	}

	if _, err := l.CopyTo(nil, 0); err == nil {
		t.Fatalf("CopyTo with a nil destination should error")
	}
}

type (
	lkG0  struct{}
	lkG1  struct{}
	lkG2  struct{}
	lkG3  struct{}
	lkG4  struct{}
	lkG5  struct{}
	lkG6  struct{}
	lkG7  struct{}
	lkG8  struct{}
	lkG9  struct{}
	lkG10 struct{}
	lkG11 struct{}
	lkG12 struct{}
	lkG13 struct{}
	lkG14 struct{}
	lkG15 struct{}
	lkG16 struct{}
	lkG17 struct{}
	lkG18 struct{}
	lkG19 struct{}
)

func TestLookupGrowthAcrossManyArchetypes(t *testing.T) {
	l := NewEntityTableLookup()
	if l.Capacity() != initialLookupCapacity {
		t.Fatalf("expected initial capacity %d, got %d", initialLookupCapacity, l.Capacity())
	}

	// 20 distinct single-tag archetypes forces growth past 8 -> 16 -> 32.
	types := []ComponentType{
		TypeOf[lkG0](), TypeOf[lkG1](), TypeOf[lkG2](), TypeOf[lkG3](), TypeOf[lkG4](),
		TypeOf[lkG5](), TypeOf[lkG6](), TypeOf[lkG7](), TypeOf[lkG8](), TypeOf[lkG9](),
		TypeOf[lkG10](), TypeOf[lkG11](), TypeOf[lkG12](), TypeOf[lkG13](), TypeOf[lkG14](),
		TypeOf[lkG15](), TypeOf[lkG16](), TypeOf[lkG17](), TypeOf[lkG18](), TypeOf[lkG19](),
	}
	for _, ct := range types {
		l.GetGrouping(NewArchetype(ct))
	}

	if l.Count() != 20 {
		t.Fatalf("expected 20 interned groupings, got %d", l.Count())
	}
	if l.Capacity() < 32 {
		t.Fatalf("expected capacity to have grown to at least 32, got %d", l.Capacity())
	}

	for _, ct := range types {
		if !l.Contains(NewArchetype(ct).ComponentBitmask()) {
			t.Fatalf("grouping for component id %d missing after growth", ct.ID())
		}
	}
}

func TestLookupEnumeratorIsStableAcrossLaterInserts(t *testing.T) {
	l := NewEntityTableLookup()
	l.GetGrouping(NewArchetype(TypeOf[lkA]()))
	l.GetGrouping(NewArchetype(TypeOf[lkB]()))

	e := l.NewEnumerator()
	if e.Len() != 2 {
		t.Fatalf("expected enumerator snapshot of 2, got %d", e.Len())
	}

	// Insert after the snapshot; the enumerator must not observe it.
	l.GetGrouping(NewArchetype(TypeOf[lkC]()))

	count := 0
	for e.Next() {
		_ = e.Current()
		count++
	}
	if count != 2 {
		t.Fatalf("enumerator should only visit its snapshot size, visited %d", count)
	}
	if l.Count() != 3 {
		t.Fatalf("lookup itself should reflect the later insert, got %d", l.Count())
	}
}

func TestLookupConcurrentGetGrouping(t *testing.T) {
	l := NewEntityTableLookup()
	a := NewArchetype(TypeOf[lkA](), TypeOf[lkB]())

	var wg sync.WaitGroup
	results := make([]EntityTableGrouping, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.GetGrouping(a)
		}(i)
	}
	wg.Wait()

	first := results[0]
	for _, g := range results {
		if g != first {
			t.Fatalf("concurrent GetGrouping calls for the same archetype must converge on one instance")
		}
	}
	if l.Count() != 1 {
		t.Fatalf("expected exactly one interned grouping, got %d", l.Count())
	}
}
