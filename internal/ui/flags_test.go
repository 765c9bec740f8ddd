package ui

import "testing"

func TestFlagsDefaultsAndNotify(t *testing.T) {
	f := NewFlags()
	st := f.State()
	if !st.ShowUserConfig || st.ShowAgentEdit || st.ShowClientSelector {
		t.Fatalf("unexpected defaults: %+v", st)
	}
	if !st.Editing() {
		t.Fatalf("profile setup counts as editing")
	}

	var last State
	calls := 0
	f.Subscribe(func(s State) { last = s; calls++ })

	f.SetShowUserConfig(false)
	f.SetShowClientSelector(true)
	if calls != 2 || last.ShowUserConfig || !last.ShowClientSelector {
		t.Fatalf("unexpected notifications: calls=%d last=%+v", calls, last)
	}
	if last.Editing() {
		t.Fatalf("client selector is not editing")
	}

	f.SetShowAgentEdit(true)
	if !f.State().Editing() {
		t.Fatalf("agent edit should count as editing")
	}
}
