package ioc

import "strings"

// separatorCutset holds the characters stripped from both ends of a match.
// The hash patterns may capture one trailing ',' or ';', and list-style
// reports often leave a space behind.
const separatorCutset = ",; "

// Extract finds indicators of every category in text.
//
// Each pattern runs over the raw text and over Deobfuscate(text); matches
// from both passes are trimmed of separators and merged, so a value that is
// only recognizable after deobfuscation is found as well as the literal
// obfuscated form.
func Extract(text string) *Set {
	return ExtractFrom(text, Deobfuscate(text))
}

// ExtractFrom is Extract with a caller-supplied deobfuscated copy of raw.
func ExtractFrom(raw, cleaned string) *Set {
	set := NewSet()
	for _, c := range Categories {
		re := c.Pattern()
		for _, text := range []string{raw, cleaned} {
			for _, m := range re.FindAllString(text, -1) {
				set.Add(c, strings.Trim(m, separatorCutset))
			}
		}
	}
	return set
}
