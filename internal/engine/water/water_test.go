package water

import "testing"

func TestTables(t *testing.T) {
	for name, w := range map[string]Waves{"ripple": Ripple, "ocean": Ocean} {
		if len(w.Frequency) != w.Len() || len(w.Phase) != w.Len() {
			t.Errorf("%s: ragged table", name)
		}
	}
	if Ripple.Len() != 3 || Ocean.Len() != 6 {
		t.Errorf("lens = %d, %d", Ripple.Len(), Ocean.Len())
	}
}

func TestFor(t *testing.T) {
	if For(true).Len() != 6 {
		t.Error("water surfaces should use the ocean table")
	}
	if For(false).Len() != 3 {
		t.Error("plain surfaces should use the ripple table")
	}
}
