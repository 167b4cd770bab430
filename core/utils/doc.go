// Package utils provides small helpers shared across features: identifier parsing
// for values coming off the wire, permissive boolean parsing for query flags and
// whitespace normalization for user-entered names.
package utils
