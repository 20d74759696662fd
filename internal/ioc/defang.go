package ioc

// defangReplacements turns live indicators into their conventional
// non-clickable form. Deobfuscate reverses every entry.
var defangReplacements = []Replacement{
	{Old: "https://", New: "hxxps://"},
	{Old: "http://", New: "hxxp://"},
	{Old: "@", New: "[at]"},
	{Old: ".", New: "[.]"},
}

// Defang rewrites s so that URLs, domains, emails and IPv4 addresses in it
// can no longer be clicked or resolved by accident:
//
//	http://bad.example.com -> hxxp://bad[.]example[.]com
//	admin@example.com      -> admin[at]example[.]com
//
// Deobfuscate(Defang(s)) == s whenever s contains no '[' character and no
// obfuscation marker such as "hxxp" or "(dot)".
func Defang(s string) string {
	return applyReplacements(s, defangReplacements)
}
