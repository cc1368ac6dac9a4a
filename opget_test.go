package users

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		lookup Lookup
		zero   bool
		str    string
	}{
		{ByID("u1"), false, "u1"},
		{ByUsername("bob"), false, "username=bob"},
		{By("email", "a@b"), false, "email=a@b"},
		{By("email", ""), false, "email="},
		{Lookup{}, true, "="},
	}
	for _, tt := range tests {
		if got := tt.lookup.IsZero(); got != tt.zero {
			t.Errorf("%v.IsZero() = %v, wanted %v", tt.lookup, got, tt.zero)
		}
		if got := tt.lookup.String(); got != tt.str {
			t.Errorf("String() = %q, wanted %q", got, tt.str)
		}
	}
}
