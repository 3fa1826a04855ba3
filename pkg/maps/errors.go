package maps

import "fmt"

// Field names a top-level field of a mapping line, as reported in
// parse errors.
type Field string

const (
	FieldAddressRange Field = "address_range"
	FieldPermissions  Field = "permissions"
	FieldOffset       Field = "offset"
	FieldDevice       Field = "device"
	FieldInode        Field = "inode"
	FieldPathname     Field = "pathname"
)

// SyntaxError reports a line that does not match the line grammar.
type SyntaxError struct {
	Line  int // 0-based line index within the listing
	Field Field
	Pos   int // byte offset in the line where matching stopped
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: syntax error in %s at column %d", e.Line, e.Field, e.Pos)
}

// SemanticError reports a line that matched the grammar but carries a
// value that cannot be represented, e.g. a hex field too large for 64
// bits.
type SemanticError struct {
	Line  int
	Field Field
	Err   error
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d: invalid %s: %v", e.Line, e.Field, e.Err)
}

func (e *SemanticError) Unwrap() error { return e.Err }
