// Package ioc implements indicator-of-compromise extraction from free text.
//
// Extraction works on two views of the same text: the raw text as it was
// acquired, and a deobfuscated copy in which common defanging tricks used by
// threat-report authors (hxxp, [.], [at], ...) have been reverted. Each
// category pattern is applied to both views and the matches are unioned into
// a Set, so deobfuscation can only ever add indicators.
//
// The patterns only check shape. A 32-character hex string is an MD5 as far
// as this package is concerned, and any dotted word with a two-letter suffix
// is a domain. False positives are expected.
package ioc
