package ioc

import (
	"strings"
	"testing"
)

const emptyMD5 = "d41d8cd98f00b204e9800998ecf8427e"

func TestExtract_EmptyInput(t *testing.T) {
	t.Parallel()

	set := Extract("")
	if !set.IsEmpty() {
		t.Errorf("expected empty set, got %d values", set.Total())
	}
	for _, c := range Categories {
		if got := set.Values(c); got == nil || len(got) != 0 {
			t.Errorf("%s: expected empty non-nil slice, got %v", c, got)
		}
	}
}

func TestExtract_SingleHash(t *testing.T) {
	t.Parallel()

	set := Extract("MD5: " + emptyMD5)

	if got := set.Values(MD5); len(got) != 1 || got[0] != emptyMD5 {
		t.Errorf("MD5 = %v, want [%s]", got, emptyMD5)
	}
	for _, c := range Categories {
		if c == MD5 {
			continue
		}
		if n := set.Len(c); n != 0 {
			t.Errorf("%s: expected no values, got %v", c, set.Values(c))
		}
	}
}

func TestExtract_Obfuscated(t *testing.T) {
	t.Parallel()

	set := Extract("visit hxxp://bad[.]example[.]com or contact admin[at]example.com")

	tests := []struct {
		category Category
		value    string
	}{
		{category: URL, value: "http://bad.example.com"},
		{category: URL, value: "hxxp://bad[.]example[.]com"},
		{category: Email, value: "admin@example.com"},
		{category: Email, value: "admin[at]example.com"},
		{category: Domain, value: "bad.example.com"},
	}
	for _, tt := range tests {
		if !set.Contains(tt.category, tt.value) {
			t.Errorf("%s: missing %q in %v", tt.category, tt.value, set.Values(tt.category))
		}
	}
}

func TestExtract_TrimsSeparators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "semicolon", input: "hash " + emptyMD5 + "; next"},
		{name: "comma", input: emptyMD5 + ",other"},
		{name: "listed twice", input: emptyMD5 + ", " + emptyMD5 + ";"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(tt.input).Values(MD5)
			if len(got) != 1 || got[0] != emptyMD5 {
				t.Errorf("MD5 = %v, want [%s]", got, emptyMD5)
			}
		})
	}
}

func TestExtract_Categories(t *testing.T) {
	t.Parallel()

	sha1 := strings.Repeat("a", 40)
	sha256 := strings.Repeat("b", 64)

	tests := []struct {
		name     string
		input    string
		category Category
		want     string
	}{
		{name: "sha1", input: "sha1 " + sha1, category: SHA1, want: sha1},
		{name: "sha256", input: "sha256 " + sha256, category: SHA256, want: sha256},
		{name: "plain url", input: "see https://example.org/path?q=1 now", category: URL, want: "https://example.org/path?q=1"},
		{name: "plain ipv4", input: "beacon to 192.168.10.20 daily", category: IPv4, want: "192.168.10.20"},
		{name: "bracketed ipv4", input: "c2 at 10[.]0[.]0[.]1", category: IPv4, want: "10.0.0.1"},
		{name: "raw bracketed ipv4", input: "c2 at 10[.]0[.]0[.]1", category: IPv4, want: "10[.]0[.]0[.]1"},
		{name: "ipv6", input: "addr 2001:db8:0:0:0:0:2:1 seen", category: IPv6, want: "2001:db8:0:0:0:0:2:1"},
		{name: "dot word domain", input: "evil(dot)example(dot)net", category: Domain, want: "evil.example.net"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set := Extract(tt.input)
			if !set.Contains(tt.category, tt.want) {
				t.Errorf("%s: missing %q in %v", tt.category, tt.want, set.Values(tt.category))
			}
		})
	}
}

// Every match found on the deobfuscated text alone must survive in the
// combined result.
func TestExtract_SupersetOfDeobfuscated(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"visit hxxp://bad[.]example[.]com or contact admin[at]example.com",
		"c2 at 10[.]0[.]0[.]1 and fe80[::]1:2:3",
		"MD5: " + emptyMD5 + "; url hxxps[://]x[.]org/a",
		"",
	}

	for _, input := range inputs {
		set := Extract(input)
		cleaned := Deobfuscate(input)
		for _, c := range Categories {
			for _, m := range c.Pattern().FindAllString(cleaned, -1) {
				v := strings.Trim(m, separatorCutset)
				if v == "" {
					continue
				}
				if !set.Contains(c, v) {
					t.Errorf("%q: %s value %q lost", input, c, v)
				}
			}
		}
	}
}
