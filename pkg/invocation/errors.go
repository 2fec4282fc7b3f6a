package invocation

import "errors"

// Sentinel errors for invocation parsing following Go best practices.
// These enable reliable error checking with errors.Is()
var (
	// ErrMalformedToken is reserved for tokens the parser cannot
	// classify. The default parser is permissive and never returns it;
	// stricter front ends may.
	ErrMalformedToken = errors.New("malformed invocation token")
)
