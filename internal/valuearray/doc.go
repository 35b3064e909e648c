// Package valuearray implements the value-array algebra: parsing the
// string form of a postings list and computing sorted-set intersection.
//
// A value array is the ascending (possibly duplicate-containing) list of
// unsigned 32-bit postings associated with a single key. The string form is
// "<key>,<v0>,<v1>,...,<vL-1>" — every value, including the first, is
// prefixed with a comma.
package valuearray
