package warehouse

import "testing"

func TestMaskSetTestClear(t *testing.T) {
	var m Mask
	m = Set(m, 3)
	m = Set(m, 40)

	if !Test(m, 3) || !Test(m, 40) {
		t.Fatalf("expected bits 3 and 40 set")
	}
	if Test(m, 4) {
		t.Fatalf("bit 4 should not be set")
	}

	m = Clear(m, 40)
	if Test(m, 40) {
		t.Fatalf("bit 40 should be cleared")
	}
	if len(m) != 1 {
		t.Fatalf("clearing the highest word's only bit should re-trim, got len %d", len(m))
	}
}

func TestMaskTrimDropsTrailingZeroWords(t *testing.T) {
	m := Mask{1, 0, 0}
	trimmed := Trim(m)
	if len(trimmed) != 1 {
		t.Fatalf("expected trimmed length 1, got %d", len(trimmed))
	}
}

func TestMaskEqualsIgnoresTrailingZeroWords(t *testing.T) {
	a := Mask{5}
	b := Mask{5, 0, 0}
	if !Equals(a, b) {
		t.Fatalf("masks differing only by trailing zero words should be equal")
	}
}

func TestMaskHashMatchesForEqualMasks(t *testing.T) {
	a := Mask{5, 0}
	b := Mask{5}
	if Hash(a) != Hash(b) {
		t.Fatalf("equal masks must hash identically")
	}
}

func TestMaskRequiresIncludesExcludes(t *testing.T) {
	var haystack Mask
	haystack = Set(haystack, 1)
	haystack = Set(haystack, 64)

	var needleAll Mask
	needleAll = Set(needleAll, 1)
	needleAll = Set(needleAll, 64)
	if !Requires(needleAll, haystack) {
		t.Fatalf("Requires should hold when all needle bits are present")
	}

	var needleMissing Mask
	needleMissing = Set(needleMissing, 2)
	if Requires(needleMissing, haystack) {
		t.Fatalf("Requires should fail when a needle bit is absent")
	}

	if !Requires(nil, haystack) {
		t.Fatalf("an empty needle vacuously requires")
	}

	var partial Mask
	partial = Set(partial, 1)
	partial = Set(partial, 5)
	if !Includes(partial, haystack) {
		t.Fatalf("Includes should hold on any overlap")
	}
	if !Includes(nil, haystack) {
		t.Fatalf("an empty needle should vacuously include")
	}

	var disjoint Mask
	disjoint = Set(disjoint, 5)
	if !Excludes(disjoint, haystack) {
		t.Fatalf("Excludes should hold for disjoint masks")
	}
	if Excludes(needleAll, haystack) {
		t.Fatalf("Excludes should fail when masks overlap")
	}
}

func TestMaskGrowsPastFixedWidth(t *testing.T) {
	var m Mask
	m = Set(m, 1000)
	if !Test(m, 1000) {
		t.Fatalf("mask must grow to accommodate bits well beyond any fixed width")
	}
	if len(m) < 32 {
		t.Fatalf("expected mask to have grown to cover bit 1000, got %d words", len(m))
	}
}
