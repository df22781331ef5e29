package saavn

import "errors"

// ErrUnavailable is returned for every failed catalog operation:
// transport errors, non-200 responses, undecodable bodies, and
// well-formed envelopes with success=false all collapse into it.
//
// A well-formed success with zero results is not an error; it yields
// an empty page. Callers that care about the difference between "the
// catalog is down" and "nothing matched" should test for empty results
// on a nil error.
var ErrUnavailable = errors.New("saavn: catalog unavailable")
