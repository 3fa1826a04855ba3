package maps

import (
	"errors"
	"strconv"
	"strings"
)

// deletedSuffix is the marker the kernel appends to a mapping whose
// backing file has been unlinked. A real path ending in exactly this
// text is indistinguishable from the annotation, so the raw text is
// kept with the suffix in place.
const deletedSuffix = " (deleted)"

var errAddressOrder = errors.New("end address does not exceed begin address")

// buildMap converts the token spans of one line into a Map. The
// grammar has already excluded every malformation except magnitude
// overflow on numeric spans and, when strict, a non-ascending address
// range; both are semantic errors carrying the line index.
func buildMap(tree parseTree, line int, strict bool) (Map, error) {
	var m Map
	for _, sp := range tree {
		var err error
		switch sp.kind {
		case tokAddressBegin:
			m.AddressRange.Begin, err = decodeUint(sp.text, 16)
		case tokAddressEnd:
			m.AddressRange.End, err = decodeUint(sp.text, 16)
		case tokPermissions:
			m.Permissions = Permissions{
				Read:    sp.text[0] == 'r',
				Write:   sp.text[1] == 'w',
				Execute: sp.text[2] == 'x',
				Shared:  sp.text[3] == 's',
			}
		case tokOffset:
			m.Offset, err = decodeUint(sp.text, 16)
		case tokDevMajor:
			m.Device.Major, err = decodeUint(sp.text, 16)
		case tokDevMinor:
			m.Device.Minor, err = decodeUint(sp.text, 16)
		case tokInode:
			m.Inode, err = decodeUint(sp.text, 10)
		case tokPathname:
			m.Pathname = classifyPathname(sp.text)
		}
		if err != nil {
			return Map{}, &SemanticError{Line: line, Field: fieldOf(sp.kind), Err: err}
		}
	}
	if strict && m.AddressRange.End <= m.AddressRange.Begin {
		return Map{}, &SemanticError{Line: line, Field: FieldAddressRange, Err: errAddressOrder}
	}
	return m, nil
}

func decodeUint(text string, base int) (uint64, error) {
	return strconv.ParseUint(text, base, 64)
}

func fieldOf(kind tokenKind) Field {
	switch kind {
	case tokAddressBegin, tokAddressEnd:
		return FieldAddressRange
	case tokPermissions:
		return FieldPermissions
	case tokOffset:
		return FieldOffset
	case tokDevMajor, tokDevMinor:
		return FieldDevice
	case tokInode:
		return FieldInode
	default:
		return FieldPathname
	}
}

// classifyPathname applies the fixed lexical rules, in order, to the
// raw trailing text. The raw text is retained verbatim in every
// variant; no marker stripping or disambiguation is attempted.
func classifyPathname(raw string) Pathname {
	switch {
	case raw == "":
		return Pathname{Kind: PathnameAbsent}
	case len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']':
		return Pathname{Kind: PathnameSpecial, Raw: raw}
	case strings.HasSuffix(raw, deletedSuffix):
		return Pathname{Kind: PathnameDeleted, Raw: raw}
	default:
		return Pathname{Kind: PathnamePath, Raw: raw}
	}
}
