package maps

// tokenKind identifies one captured span within a mapping line.
type tokenKind int

const (
	tokNone tokenKind = iota // separator or literal, not captured
	tokAddressBegin
	tokAddressEnd
	tokPermissions
	tokOffset
	tokDevMajor
	tokDevMinor
	tokInode
	tokPathname
)

// span is one matched token with its raw text.
type span struct {
	kind tokenKind
	text string
}

// parseTree is the ordered token sequence lexed from one line.
type parseTree []span

// matcher scans s at pos and returns the span start and the position
// after the match, or ok=false when the rule does not apply there.
type matcher func(s string, pos int) (start, next int, ok bool)

// rule binds a matcher to the token it captures and the field reported
// when it fails to match.
type rule struct {
	kind  tokenKind
	field Field
	match matcher
}

// lineGrammar is the grammar for one mapping line, in mandatory field
// order. The first five fields are closed character classes that fail
// fast on malformed input. The pathname rule is deliberately
// permissive: the format has no delimiter or escaping for the trailing
// field, so constraining it further would misparse legitimate paths
// containing spaces or brackets.
var lineGrammar = []rule{
	{tokAddressBegin, FieldAddressRange, hexDigits},
	{tokNone, FieldAddressRange, literal('-')},
	{tokAddressEnd, FieldAddressRange, hexDigits},
	{tokNone, FieldPermissions, spaces},
	{tokPermissions, FieldPermissions, permissionBits},
	{tokNone, FieldOffset, spaces},
	{tokOffset, FieldOffset, hexDigits},
	{tokNone, FieldDevice, spaces},
	{tokDevMajor, FieldDevice, hexDigits},
	{tokNone, FieldDevice, literal(':')},
	{tokDevMinor, FieldDevice, hexDigits},
	{tokNone, FieldInode, spaces},
	{tokInode, FieldInode, decDigits},
	{tokPathname, FieldPathname, trailing},
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexDigits(s string, pos int) (int, int, bool) {
	next := pos
	for next < len(s) && isHexDigit(s[next]) {
		next++
	}
	return pos, next, next > pos
}

func decDigits(s string, pos int) (int, int, bool) {
	next := pos
	for next < len(s) && s[next] >= '0' && s[next] <= '9' {
		next++
	}
	return pos, next, next > pos
}

func literal(c byte) matcher {
	return func(s string, pos int) (int, int, bool) {
		if pos < len(s) && s[pos] == c {
			return pos, pos + 1, true
		}
		return pos, pos, false
	}
}

func spaces(s string, pos int) (int, int, bool) {
	next := pos
	for next < len(s) && s[next] == ' ' {
		next++
	}
	return pos, next, next > pos
}

// permFlags is the closed choice for each of the 4 permission
// positions: the set character and its only alternative.
var permFlags = [4][2]byte{{'r', '-'}, {'w', '-'}, {'x', '-'}, {'s', 'p'}}

func permissionBits(s string, pos int) (int, int, bool) {
	if pos+len(permFlags) > len(s) {
		return pos, pos, false
	}
	for i, f := range permFlags {
		if c := s[pos+i]; c != f[0] && c != f[1] {
			return pos, pos, false
		}
	}
	return pos, pos + len(permFlags), true
}

// trailing captures the rest of the line as the pathname. A separator
// is required only when anything follows the inode; the captured text
// may be empty and may contain internal spaces.
func trailing(s string, pos int) (int, int, bool) {
	if pos == len(s) {
		return pos, pos, true
	}
	if s[pos] != ' ' {
		return pos, pos, false
	}
	for pos < len(s) && s[pos] == ' ' {
		pos++
	}
	return pos, len(s), true
}

// lexLine matches one line against lineGrammar, producing the ordered
// token spans or a syntax error at the first field that fails. The
// caller fills in the error's Line.
func lexLine(line string) (parseTree, *SyntaxError) {
	tree := make(parseTree, 0, 8)
	pos := 0
	for _, r := range lineGrammar {
		start, next, ok := r.match(line, pos)
		if !ok {
			return nil, &SyntaxError{Field: r.field, Pos: pos}
		}
		if r.kind != tokNone {
			tree = append(tree, span{kind: r.kind, text: line[start:next]})
		}
		pos = next
	}
	return tree, nil
}
