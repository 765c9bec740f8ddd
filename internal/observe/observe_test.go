package observe

import "testing"

func TestRegistryNotifyOrderAndUnsubscribe(t *testing.T) {
	var r Registry[int]
	var got []string

	r.Subscribe(func(v int) { got = append(got, "a") })
	unsub := r.Subscribe(func(v int) { got = append(got, "b") })
	r.Subscribe(func(v int) { got = append(got, "c") })

	r.Notify(1)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected order: %v", got)
	}

	unsub()
	got = nil
	r.Notify(2)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unsubscribe not effective: %v", got)
	}
	if r.Len() != 2 {
		t.Fatalf("want 2 listeners, got %d", r.Len())
	}
}
