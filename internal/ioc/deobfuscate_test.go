package ioc

import "testing"

func TestDeobfuscate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text is unchanged", input: "nothing to see here", want: "nothing to see here"},
		{name: "empty", input: "", want: ""},
		{name: "hxxp scheme", input: "hxxp://x", want: "http://x"},
		{name: "hxxps scheme through the hxxp entry", input: "hxxps://x", want: "https://x"},
		{name: "dot markers", input: "a[.]b(dot)c[dot]d", want: "a.b.c.d"},
		{name: "bracketed colon", input: "host[:]8080", want: "host:8080"},
		{name: "bracketed scheme separator", input: "http[://]x", want: "http://x"},
		{name: "at marker", input: "admin[at]example.com", want: "admin@example.com"},
		{name: "bracketed at", input: "admin[@]example.com", want: "admin@example.com"},
		{name: "bracketed double colon", input: "fe80[::]1", want: "fe80::1"},
		{
			name:  "mixed sentence",
			input: "visit hxxp://bad[.]example[.]com or contact admin[at]example.com",
			want:  "visit http://bad.example.com or contact admin@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Deobfuscate(tt.input)
			if got != tt.want {
				t.Errorf("Deobfuscate(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Deobfuscate(got); again != got {
				t.Errorf("Deobfuscate is not idempotent on %q: %q", got, again)
			}
		})
	}
}

func TestApplyReplacements_Sequential(t *testing.T) {
	t.Parallel()

	got := applyReplacements("a", []Replacement{
		{Old: "a", New: "b"},
		{Old: "b", New: "c"},
	})
	if got != "c" {
		t.Errorf("later replacements must see earlier output, got %q", got)
	}
}

func TestDeobfuscationReplacements_Order(t *testing.T) {
	t.Parallel()

	want := []string{"hxxp", "hxxps", "[.]", "(dot)", "[dot]", "[:]", "[://]", "[at]", "[@]", "[::]"}
	if len(DeobfuscationReplacements) != len(want) {
		t.Fatalf("got %d replacements, want %d", len(DeobfuscationReplacements), len(want))
	}
	for i, r := range DeobfuscationReplacements {
		if r.Old != want[i] {
			t.Errorf("replacement %d = %q, want %q", i, r.Old, want[i])
		}
	}
}
