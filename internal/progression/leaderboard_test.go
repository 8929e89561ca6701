package progression

import "testing"

func TestRank_SortsByXPDescending(t *testing.T) {
	in := []Entry{
		{ID: "a", TotalXP: 100},
		{ID: "b", TotalXP: 900},
		{ID: "c", TotalXP: 400},
	}
	out := Rank(in)
	wantOrder := []string{"b", "c", "a"}
	for i, id := range wantOrder {
		if out[i].ID != id {
			t.Errorf("rank %d = %s, want %s", i+1, out[i].ID, id)
		}
		if out[i].Rank != i+1 {
			t.Errorf("entry %s: Rank = %d, want %d", out[i].ID, out[i].Rank, i+1)
		}
	}
}

func TestRank_TiesKeepFeedOrder(t *testing.T) {
	in := []Entry{
		{ID: "first", TotalXP: 500},
		{ID: "second", TotalXP: 500},
		{ID: "third", TotalXP: 500},
	}
	out := Rank(in)
	for i, id := range []string{"first", "second", "third"} {
		if out[i].ID != id {
			t.Errorf("tie order broken at %d: got %s, want %s", i, out[i].ID, id)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []Entry{
		{ID: "a", TotalXP: 1},
		{ID: "b", TotalXP: 2},
	}
	Rank(in)
	if in[0].ID != "a" || in[0].Rank != 0 {
		t.Errorf("input mutated: %+v", in[0])
	}
}
