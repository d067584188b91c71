package rng

import "testing"

func TestUniformChoiceStaysWithinSet(t *testing.T) {
	c := UniformChoice[string]{"a", "b", "c"}
	s := NewSource(99)
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		v := c.Choose(s)
		found := false
		for _, want := range c {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Choose returned %q, not a member of %v", v, c)
		}
		seen[v] = true
	}
	if len(seen) != len(c) {
		t.Fatalf("expected every option to be drawn at least once over 1000 draws, got %v", seen)
	}
}

func TestUniformChoiceDeterministic(t *testing.T) {
	c := UniformChoice[int]{10, 20, 30, 40}
	a := c.Choose(NewSource(7))
	b := c.Choose(NewSource(7))
	if a != b {
		t.Fatalf("same seed produced different draws: %d != %d", a, b)
	}
}
