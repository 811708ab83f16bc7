// Package constraints provides type constraints shared by generic helpers.
package constraints

// Byteseq represents a header name or value given either as a string or as a byte slice.
type Byteseq interface {
	~string | ~[]byte
}
