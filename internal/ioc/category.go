package ioc

import "regexp"

// Category is one of the fixed indicator types recognized by the extractor.
type Category string

// Supported categories. The string value doubles as the spreadsheet column
// header and the JSON key.
const (
	MD5    Category = "MD5"
	SHA1   Category = "SHA1"
	SHA256 Category = "SHA256"
	Email  Category = "Email"
	URL    Category = "URL"
	Domain Category = "Domain"
	IPv4   Category = "IPv4"
	IPv6   Category = "IPv6"
)

// Categories lists every category in export column order.
var Categories = []Category{MD5, SHA1, SHA256, Email, URL, Domain, IPv4, IPv6}

// patterns maps each category to its matcher. The expressions tolerate the
// bracket forms of obfuscation ([.], [at], [:]) so that indicators are found
// in the raw text as well as in the deobfuscated copy.
var patterns = map[Category]*regexp.Regexp{
	MD5:    regexp.MustCompile(`\b[a-fA-F\d]{32}\b[,;]?`),
	SHA1:   regexp.MustCompile(`\b[a-fA-F\d]{40}\b[,;]?`),
	SHA256: regexp.MustCompile(`\b[a-fA-F\d]{64}\b[,;]?`),
	Email:  regexp.MustCompile(`[a-zA-Z0-9._%+-]+(?:@|\[at\]|\[@\])[a-zA-Z0-9.-]+\.(?:[a-zA-Z]{2,})`),
	URL:    regexp.MustCompile(`(?:http|https|hxxp|hxxps)(?::|[:]?)//[\w\[\]\-./?%&=]+`),
	Domain: regexp.MustCompile(`\b(?:[a-zA-Z0-9-]+\[?\.\]?)+(?:[a-zA-Z]{2,})\b`),
	IPv4:   regexp.MustCompile(`\b(?:\d{1,3}|\[\d{1,3}\])(?:(?:\.|\[.\])(?:\d{1,3}|\[\d{1,3}\])){3}\b`),
	IPv6:   regexp.MustCompile(`\b(?:[a-fA-F0-9]{1,4}(?::|\[:\])){2,7}[a-fA-F0-9]{1,4}\b`),
}

// Pattern returns the compiled matcher for the category, or nil for an
// unknown category.
func (c Category) Pattern() *regexp.Regexp {
	return patterns[c]
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	_, ok := patterns[c]
	return ok
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, bool) {
	c := Category(name)
	return c, c.Valid()
}
