// Package utils provides small conversion helpers for request parameters.
//
// The helpers accept the loose forms found in query strings and form fields,
// so handlers and commands parse flags such as "private=1" or "optimize=yes"
// the same way.
package utils
