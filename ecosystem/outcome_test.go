package ecosystem

import "testing"

func TestRandSourceRange(t *testing.T) {
	src := NewRandSource(42)
	var sawMin, sawMax bool
	for i := 0; i < 20000; i++ {
		v := src.Draw()
		if v < 0 || v > 100 {
			t.Fatalf("draw %d out of [0,100]", v)
		}
		sawMin = sawMin || v == 0
		sawMax = sawMax || v == 100
	}
	if !sawMin || !sawMax {
		t.Errorf("range endpoints not reached: min=%v max=%v", sawMin, sawMax)
	}
}

func TestRandSourceDeterministic(t *testing.T) {
	a, b := NewRandSource(7), NewRandSource(7)
	for i := 0; i < 100; i++ {
		if a.Draw() != b.Draw() {
			t.Fatal("same seed produced different draws")
		}
	}
}

func TestSequenceSource(t *testing.T) {
	s := &SequenceSource{Values: []int{3, 9}}
	got := []int{s.Draw(), s.Draw(), s.Draw()}
	want := []int{3, 9, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d = %d, want %d", i, got[i], want[i])
		}
	}
	empty := &SequenceSource{}
	if empty.Draw() != 100 {
		t.Error("empty sequence should draw 100")
	}
}
