package keys

import "testing"

func TestKeyStrings(t *testing.T) {
	want := map[string]string{
		"up": Up, "down": Down, "left": Left, "right": Right,
		"home": Home, "end": End, "pgup": PgUp, "pgdown": PgDown,
		"enter": Enter, "tab": Tab, "space": Space,
		"backspace": Backspace, "esc": Escape, "ctrl+c": CtrlC,
	}
	for expected, got := range want {
		if got != expected {
			t.Errorf("key string = %q, want %q", got, expected)
		}
	}
}

func TestKeyStrings_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range []string{Up, Down, Left, Right, Home, End, PgUp, PgDown, Enter, Tab, Space, Backspace, Escape, CtrlC} {
		if seen[k] {
			t.Errorf("duplicate key string %q", k)
		}
		seen[k] = true
	}
}
