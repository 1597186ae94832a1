package reactive

import "testing"

func TestWatcherCollectsOnConstruction(t *testing.T) {
	data := ObjectOf("count", 0)
	Observe(data)

	var rec recorder
	w := NewWatcher(data, "count", rec.record)

	if rec.calls() != 0 {
		t.Error("construction should not invoke the callback")
	}
	if IsCollecting() {
		t.Error("collection should end after construction")
	}
	if w.Key() != "count" {
		t.Errorf("Key() = %q, want count", w.Key())
	}

	data.Set("count", 5)
	if rec.calls() != 1 || rec.last() != 5 {
		t.Errorf("expected callback with 5, got %v", rec.values)
	}
}

func TestWatcherUpdateRereads(t *testing.T) {
	data := ObjectOf("name", "a")
	Observe(data)

	var rec recorder
	w := NewWatcher(data, "name", rec.record)

	data.Set("name", "b")
	data.Set("name", "c")
	w.Update()

	want := []any{"b", "c", "c"}
	if len(rec.values) != len(want) {
		t.Fatalf("got %v, want %v", rec.values, want)
	}
	for i := range want {
		if rec.values[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, rec.values[i], want[i])
		}
	}
}

func TestWatcherOnNestedObjectReadsArrayDep(t *testing.T) {
	data := ObjectOf("items", NewArray())
	Observe(data)

	var rec recorder
	NewWatcher(data, "items", rec.record)

	data.Get("items").(*Array).Push("x")
	data.Get("items").(*Array).Reverse()

	if rec.calls() != 2 {
		t.Errorf("expected 2 updates from array mutations, got %d", rec.calls())
	}
}

func TestWatchersHaveUniqueIDs(t *testing.T) {
	data := ObjectOf("a", 1)
	w1 := NewWatcher(data, "a", func(any) {})
	w2 := NewWatcher(data, "a", func(any) {})
	if w1.ID() == w2.ID() {
		t.Error("watchers should have distinct IDs")
	}
}

func TestWatcherOnUnobservedData(t *testing.T) {
	data := ObjectOf("a", 1)

	var rec recorder
	NewWatcher(data, "a", rec.record)
	data.Set("a", 2)

	if rec.calls() != 0 {
		t.Error("unobserved data should never notify")
	}
}
