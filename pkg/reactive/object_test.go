package reactive

import (
	"reflect"
	"testing"
)

func TestObserveIsIdempotent(t *testing.T) {
	data := ObjectOf("count", 0)
	ob1 := Observe(data)
	ob2 := Observe(data)

	if ob1 == nil || ob1 != ob2 {
		t.Fatal("observing twice should return the same Observer")
	}
	if data.Observer() != ob1 {
		t.Error("Observer marker should reference the Observer")
	}

	// Re-observing must not replace the key's cell (and its subscribers).
	var rec recorder
	NewWatcher(data, "count", rec.record)
	Observe(data)
	data.Set("count", 1)
	if rec.calls() != 1 {
		t.Errorf("expected 1 update after re-observe, got %d", rec.calls())
	}
}

func TestObserveNonObservable(t *testing.T) {
	for _, v := range []any{nil, 1, "x", true, []int{1}, (*Object)(nil), (*Array)(nil)} {
		if ob := Observe(v); ob != nil {
			t.Errorf("Observe(%#v) should return nil", v)
		}
	}
}

func TestObserveNested(t *testing.T) {
	inner := ObjectOf("x", 1)
	list := NewArray(ObjectOf("y", 2))
	data := ObjectOf("inner", inner, "list", list)
	Observe(data)

	if inner.Observer() == nil {
		t.Error("nested object should be observed")
	}
	if list.Observer() == nil {
		t.Error("nested array should be observed")
	}
	if list.At(0).(*Object).Observer() == nil {
		t.Error("array elements should be observed")
	}
}

func TestObserveCycle(t *testing.T) {
	a := NewObject()
	b := ObjectOf("a", a)
	a.Set("b", b)

	Observe(a)

	if a.Observer() == nil || b.Observer() == nil {
		t.Error("both objects in a cycle should be observed")
	}
}

func TestWriteNotifiesReadersInOrder(t *testing.T) {
	data := ObjectOf("count", 0, "other", 0)
	Observe(data)

	var log []string
	first := newTestSubscriber("first", &log)
	second := newTestSubscriber("second", &log)
	bystander := newTestSubscriber("bystander", &log)
	Collect(first, func() { data.Get("count") })
	Collect(second, func() { data.Get("count") })
	Collect(bystander, func() { data.Get("other") })

	data.Set("count", 1)

	want := []string{"first", "second"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("notified %v, want %v", log, want)
	}
}

func TestSameValueWriteDoesNotNotify(t *testing.T) {
	nested := NewObject()
	data := ObjectOf("n", 1, "s", "a", "obj", nested)
	Observe(data)

	var recN, recS, recObj recorder
	NewWatcher(data, "n", recN.record)
	NewWatcher(data, "s", recS.record)
	NewWatcher(data, "obj", recObj.record)

	data.Set("n", 1)
	data.Set("s", "a")
	data.Set("obj", nested)

	if recN.calls()+recS.calls()+recObj.calls() != 0 {
		t.Error("reference-equal writes should not notify")
	}
}

func TestAssignedObjectBecomesReactive(t *testing.T) {
	data := ObjectOf("user", nil)
	Observe(data)

	user := ObjectOf("name", "ann")
	data.Set("user", user)

	if user.Observer() == nil {
		t.Fatal("assigned object should be observed")
	}

	var rec recorder
	NewWatcher(user, "name", rec.record)
	user.Set("name", "bob")

	if rec.calls() != 1 || rec.last() != "bob" {
		t.Errorf("watcher on new object's key should update, got %v", rec.values)
	}
}

func TestChildObserverFollowsAssignment(t *testing.T) {
	data := ObjectOf("list", NewArray(1))
	Observe(data)

	replacement := NewArray(1, 2)
	data.Set("list", replacement)

	var rec recorder
	NewWatcher(data, "list", rec.record)
	replacement.Push(3)

	if rec.calls() != 1 {
		t.Errorf("readers of a key should follow the newly assigned array, got %d updates", rec.calls())
	}
}

func TestExistingWatcherFollowsReassignedArray(t *testing.T) {
	data := ObjectOf("list", NewArray(1))
	Observe(data)

	var rec recorder
	NewWatcher(data, "list", rec.record)

	next := NewArray(7)
	data.Set("list", next)
	if rec.calls() != 1 {
		t.Fatalf("reassignment should notify once, got %d", rec.calls())
	}

	next.Push(8)
	if rec.calls() != 2 {
		t.Fatalf("push on the new array should notify, got %d updates", rec.calls())
	}
	if got := ToString(rec.last()); got != "7,8" {
		t.Errorf("last value = %q, want %q", got, "7,8")
	}
}

func TestExistingWatcherFollowsReassignedObject(t *testing.T) {
	data := ObjectOf("user", ObjectOf("name", "a"))
	Observe(data)

	var rec recorder
	NewWatcher(data, "user", rec.record)

	next := ObjectOf("tags", NewArray())
	data.Set("user", next)
	tags := next.Get("tags").(*Array)
	tags.Push("x")

	// The nested array's Observer is not the user key's child, so only
	// the reassignment notifies.
	if rec.calls() != 1 {
		t.Errorf("got %d updates, want 1", rec.calls())
	}
}

func TestKeysAddedAfterObserveAreNotReactive(t *testing.T) {
	data := ObjectOf("a", 1)
	Observe(data)

	data.Set("late", 1)
	if data.IsReactive("late") {
		t.Fatal("late key should be plain")
	}

	var rec recorder
	NewWatcher(data, "late", rec.record)
	data.Set("late", 2)

	if rec.calls() != 0 {
		t.Error("late key should not notify")
	}
	if data.Get("late") != 2 {
		t.Errorf("late key should still store values, got %v", data.Get("late"))
	}
}

func TestObjectKeysPreserveOrder(t *testing.T) {
	data := ObjectOf("z", 1, "a", 2, "m", 3)
	want := []string{"z", "a", "m"}
	if !reflect.DeepEqual(data.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", data.Keys(), want)
	}
}

func TestObjectOfPanicsOnOddArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	ObjectOf("a")
}

func TestFromMapWraps(t *testing.T) {
	o := FromMap(map[string]any{
		"b": []any{1, map[string]any{"c": 2}},
		"a": map[string]any{"x": "y"},
	})

	if !reflect.DeepEqual(o.Keys(), []string{"a", "b"}) {
		t.Errorf("keys should be sorted, got %v", o.Keys())
	}
	if _, ok := o.Get("a").(*Object); !ok {
		t.Errorf("nested map should become *Object, got %T", o.Get("a"))
	}
	arr, ok := o.Get("b").(*Array)
	if !ok {
		t.Fatalf("nested slice should become *Array, got %T", o.Get("b"))
	}
	if _, ok := arr.At(1).(*Object); !ok {
		t.Errorf("map inside slice should become *Object, got %T", arr.At(1))
	}
}

func TestLookup(t *testing.T) {
	o := ObjectOf("a", nil)
	if _, ok := o.Lookup("a"); !ok {
		t.Error("present key with nil value should be found")
	}
	if _, ok := o.Lookup("b"); ok {
		t.Error("missing key should not be found")
	}
}
