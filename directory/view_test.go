package directory

import "testing"

func TestView_StaleFetchIsDropped(t *testing.T) {
	v := NewView()
	slow := v.BeginFetch()
	fast := v.BeginFetch()

	if !v.Apply(fast, []Doctor{{ID: "new"}}) {
		t.Fatal("expected newer fetch to apply")
	}
	if v.Apply(slow, []Doctor{{ID: "old"}}) {
		t.Fatal("expected older fetch to be dropped")
	}
	if got := v.Records(); len(got) != 1 || got[0].ID != "new" {
		t.Errorf("expected newer data to survive, got %v", got)
	}
}

func TestView_WriteInvalidatesInFlightFetch(t *testing.T) {
	v := NewView()
	gen := v.BeginFetch()
	v.Apply(gen, []Doctor{{ID: "doc1"}})

	inFlight := v.BeginFetch()
	v.SetSuspended("doc1", true)

	if v.Apply(inFlight, []Doctor{{ID: "doc1", Suspended: false}}) {
		t.Fatal("a fetch issued before a confirmed write must not apply")
	}
	d, _ := v.Find("doc1")
	if !d.Suspended {
		t.Error("expected the confirmed suspension to survive")
	}

	if !v.Apply(v.BeginFetch(), []Doctor{{ID: "doc1", Suspended: true}}) {
		t.Error("a fetch issued after the write should apply")
	}
}

func TestView_RemoveAndUpsert(t *testing.T) {
	v := NewView()
	v.Apply(v.BeginFetch(), []Doctor{{ID: "doc1"}, {ID: "doc2"}, {ID: "doc3"}})

	if !v.Remove("doc2") {
		t.Fatal("expected doc2 to be removed")
	}
	if v.Remove("doc2") {
		t.Error("second remove should report absence")
	}
	if _, ok := v.Find("doc2"); ok {
		t.Error("doc2 still present")
	}
	if v.Len() != 2 {
		t.Errorf("expected 2 records, got %d", v.Len())
	}

	v.Upsert(Doctor{ID: "doc1", Name: "renamed"})
	v.Upsert(Doctor{ID: "doc4"})
	got := v.Records()
	if len(got) != 3 || got[0].Name != "renamed" || got[2].ID != "doc4" {
		t.Errorf("unexpected records after upsert: %+v", got)
	}
}

func TestView_RecordsIsACopy(t *testing.T) {
	v := NewView()
	v.Apply(v.BeginFetch(), []Doctor{{ID: "doc1"}})
	got := v.Records()
	got[0].ID = "mutated"
	if d, ok := v.Find("doc1"); !ok || d.ID != "doc1" {
		t.Error("caller mutation leaked into the view")
	}
}
