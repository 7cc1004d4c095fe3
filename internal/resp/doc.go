// Package resp implements the RESP wire protocol: a typed value model and a
// bidirectional codec between byte buffers and values.
//
// The decoder is a prefix parser: it consumes exactly one frame from the
// front of a buffer and reports how many bytes it took, which makes command
// pipelining fall out naturally. Scalar frames are terminator-driven; bulk
// strings and arrays are length-driven and binary-safe.
//
// Only the RESP types this server speaks are implemented. The remaining
// RESP3 types (floats, big numbers, maps, sets, verbatim strings, bulk
// errors, attributes, push) are recognized and rejected with ErrUnsupported
// rather than misread.
package resp
