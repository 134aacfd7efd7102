// Package diplomat implements the host side of the Diplomat FFI protocol:
// discriminated results read from receive buffers, single ownership of
// opaque native objects, write buffers for variable-length UTF-8 output and
// the UTF-8 pre-check for validated string parameters.
//
// The package is transport-neutral. Anything that can call an exported
// symbol and expose the callee's linear memory satisfies Library.
package diplomat
