package ipr

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		strict  bool
		want    string
		wantErr bool
	}{
		{"plain", "email", true, "email", false},
		{"underscore_prefixed", "_private", true, "_private", false},
		{"strict_rejects_dash", "bad-name", true, "", true},
		{"strict_rejects_space", "bad name", true, "", true},
		{"lenient_quotes_bad_chars", "bad-name", false, "`bad-name`", false},
		{"reserved_word_quoted", "MATCH", true, "`MATCH`", false},
		{"reserved_word_lowercase_quoted", "match", true, "`match`", false},
		{"not_reserved_lowercase_like_keyword_substr", "matches", true, "matches", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.id, tt.strict)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate(%q, %v) = nil error, want error", tt.id, tt.strict)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q, %v) unexpected error: %v", tt.id, tt.strict, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q, %v) = %q, want %q", tt.id, tt.strict, got, tt.want)
			}
		})
	}
}

func TestRegistryBindIsMonotonicAndUnique(t *testing.T) {
	r := New()
	names := map[string]bool{}
	for i := 0; i < 5; i++ {
		name := r.Bind(i)
		if names[name] {
			t.Fatalf("duplicate placeholder name %q", name)
		}
		names[name] = true
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d, want 5", r.Len())
	}
	params := r.Params()
	if len(params) != 5 {
		t.Errorf("Params() has %d entries, want 5", len(params))
	}
	for name, want := range map[string]int{"param_0": 0, "param_4": 4} {
		got, ok := params[name]
		if !ok {
			t.Fatalf("Params() missing %q", name)
		}
		if got != want {
			t.Errorf("Params()[%q] = %v, want %v", name, got, want)
		}
	}
}

func TestRegistryParamsIsACopy(t *testing.T) {
	r := New()
	r.Bind(1)
	p1 := r.Params()
	p1["param_0"] = 999
	p2 := r.Params()
	if p2["param_0"] != 1 {
		t.Errorf("mutating a returned Params() map affected the registry: got %v", p2["param_0"])
	}
}
