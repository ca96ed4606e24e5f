package intent

import "testing"

func TestContainsBounded(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"i remembered the keys", "remember", false},
		{"please remember the keys", "remember", true},
		{"remember", "remember", true},
		{"a disremember b", "remember", false},
		{"remember that i'm marc", "remember that i'm", true},
		{"say remember, now", "remember", true},
		{"anything", "", false},
	}

	for _, tt := range tests {
		if got := containsBounded(tt.s, tt.sub); got != tt.want {
			t.Errorf("containsBounded(%q, %q) = %v, want %v", tt.s, tt.sub, got, tt.want)
		}
	}
}

func TestHasBoundedPrefix(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"remember the keys", "remember", true},
		{"remembered the keys", "remember", false},
		{"remember", "remember", true},
		{"remember, please", "remember", true},
	}

	for _, tt := range tests {
		if got := hasBoundedPrefix(tt.s, tt.sub); got != tt.want {
			t.Errorf("hasBoundedPrefix(%q, %q) = %v, want %v", tt.s, tt.sub, got, tt.want)
		}
	}
}

func TestTokenizeKeepsContractions(t *testing.T) {
	got := tokenize("remember that i'm marc!")
	want := []string{"remember", "that", "i'm", "marc"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("The") {
		t.Error("expected 'The' to be a stopword")
	}
	if IsStopword("memory") {
		t.Error("'memory' must not be a stopword")
	}
}
