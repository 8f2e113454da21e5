package warehouse

import "testing"

type flPos struct{ X, Y float64 }
type flVel struct{ X, Y float64 }
type flHealth struct{ Current int }
type flFrozen struct{}

func TestUniversalFilterMatchesEverything(t *testing.T) {
	pos := TypeOf[flPos]()
	if !Universal.Matches(NewArchetype()) {
		t.Fatalf("Universal must match the empty archetype")
	}
	if !Universal.Matches(NewArchetype(pos)) {
		t.Fatalf("Universal must match any archetype")
	}
}

func TestFilterRequire(t *testing.T) {
	pos, vel := TypeOf[flPos](), TypeOf[flVel]()
	f := Create([]ComponentType{pos, vel}, nil, nil)

	if !f.Matches(NewArchetype(pos, vel)) {
		t.Fatalf("required superset archetype should match")
	}
	if !f.Matches(NewArchetype(pos, vel, TypeOf[flHealth]())) {
		t.Fatalf("extra components beyond the requirement should still match")
	}
	if f.Matches(NewArchetype(pos)) {
		t.Fatalf("missing a required component must not match")
	}
}

func TestFilterInclude(t *testing.T) {
	vel, health := TypeOf[flVel](), TypeOf[flHealth]()
	f := Create(nil, []ComponentType{vel, health}, nil)

	if !f.Matches(NewArchetype(vel)) {
		t.Fatalf("archetype containing any included component should match")
	}
	if f.Matches(NewArchetype(TypeOf[flPos]())) {
		t.Fatalf("archetype containing none of the included components must not match")
	}
}

func TestFilterExclude(t *testing.T) {
	pos, frozen := TypeOf[flPos](), TypeOf[flFrozen]()
	f := Create([]ComponentType{pos}, nil, []ComponentType{frozen})

	if !f.Matches(NewArchetype(pos)) {
		t.Fatalf("archetype without the excluded component should match")
	}
	if f.Matches(NewArchetype(pos, frozen)) {
		t.Fatalf("archetype with the excluded component must not match")
	}
}

func TestFilterEqualComparesOnlyMasks(t *testing.T) {
	pos, vel := TypeOf[flPos](), TypeOf[flVel]()
	a := Create([]ComponentType{pos, vel}, nil, nil)
	b := Create([]ComponentType{vel, pos}, nil, nil)
	if !a.Equal(b) {
		t.Fatalf("filters built from reordered inputs must be equal")
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	pos, vel, frozen := TypeOf[flPos](), TypeOf[flVel](), TypeOf[flFrozen]()

	f := NewBuilder().Require(pos).Include(vel).Exclude(frozen).Build()
	direct := Create([]ComponentType{pos}, []ComponentType{vel}, []ComponentType{frozen})
	if !f.Equal(direct) {
		t.Fatalf("builder-constructed filter must equal the directly-constructed equivalent")
	}

	extended := f.ToBuilder().Require(TypeOf[flHealth]()).Build()
	if extended.Equal(f) {
		t.Fatalf("extending via ToBuilder must not leave the filter unchanged")
	}
	if !extended.Matches(NewArchetype(pos, vel, TypeOf[flHealth]())) {
		t.Fatalf("extended filter should match an archetype satisfying the new requirement")
	}
}

func TestCreateAllEmptyReturnsUniversal(t *testing.T) {
	f := Create(nil, nil, nil)
	if !f.Equal(Universal) {
		t.Fatalf("Create with all-empty inputs must behave like Universal")
	}
}
