package ioc

import "strings"

// Replacement is a literal substring substitution.
type Replacement struct {
	Old string
	New string
}

// DeobfuscationReplacements is applied in order by Deobfuscate. Later entries
// see the output of earlier ones, so the order must not change: "hxxps" is
// already rewritten by the "hxxp" entry before its own entry runs, and "[::]"
// relies on running after "[:]" without being consumed by it.
//
// Overlapping markers (for example nested brackets) are not handled
// specially; whatever the sequential substitution produces is the result.
var DeobfuscationReplacements = []Replacement{
	{Old: "hxxp", New: "http"},
	{Old: "hxxps", New: "https"},
	{Old: "[.]", New: "."},
	{Old: "(dot)", New: "."},
	{Old: "[dot]", New: "."},
	{Old: "[:]", New: ":"},
	{Old: "[://]", New: "://"},
	{Old: "[at]", New: "@"},
	{Old: "[@]", New: "@"},
	{Old: "[::]", New: "::"},
}

// Deobfuscate reverts the defanging markers listed in
// DeobfuscationReplacements. Text without any marker is returned unchanged.
func Deobfuscate(text string) string {
	return applyReplacements(text, DeobfuscationReplacements)
}

// applyReplacements runs each replacement over the whole text in turn.
// strings.Replacer is not used because it performs a single pass and would
// not let later substitutions see earlier output.
func applyReplacements(text string, replacements []Replacement) string {
	for _, r := range replacements {
		text = strings.ReplaceAll(text, r.Old, r.New)
	}
	return text
}
