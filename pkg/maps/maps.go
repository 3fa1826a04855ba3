// Package maps parses the /proc/<pid>/maps listing of a Linux process
// into typed records.
//
// Parsing runs in two stages: a token grammar that validates the
// fixed-format fields of each line (grammar.go), and a builder that
// decodes the matched spans into a Map (builder.go). The trailing
// pathname field has no escaping in the source format, so it is
// captured verbatim and only classified, never rewritten.
package maps

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/monsterxx03/procmaps/pkg/proc"
)

// AddressRange is the virtual address span of one mapping.
type AddressRange struct {
	Begin uint64 `json:"begin"`
	End   uint64 `json:"end"`
}

func (r AddressRange) Size() uint64 { return r.End - r.Begin }

func (r AddressRange) String() string {
	return fmt.Sprintf("%x-%x", r.Begin, r.End)
}

// Permissions holds the access rights and sharing mode of a mapping.
// The 4th permission character is a closed choice between shared and
// private, so a single bool carries it.
type Permissions struct {
	Read    bool `json:"read"`
	Write   bool `json:"write"`
	Execute bool `json:"execute"`
	Shared  bool `json:"shared"`
}

func (p Permissions) Private() bool { return !p.Shared }

func (p Permissions) String() string {
	b := [4]byte{'-', '-', '-', 'p'}
	if p.Read {
		b[0] = 'r'
	}
	if p.Write {
		b[1] = 'w'
	}
	if p.Execute {
		b[2] = 'x'
	}
	if p.Shared {
		b[3] = 's'
	}
	return string(b[:])
}

// Device identifies the backing block device. 0:0 is an ordinary value
// meaning no backing device (anonymous memory), not an error.
type Device struct {
	Major uint64 `json:"major"`
	Minor uint64 `json:"minor"`
}

func (d Device) Zero() bool { return d.Major == 0 && d.Minor == 0 }

func (d Device) String() string {
	return fmt.Sprintf("%02x:%02x", d.Major, d.Minor)
}

// PathnameKind classifies the trailing field of a mapping line.
type PathnameKind int

const (
	// PathnameAbsent marks an anonymous mapping with no backing file.
	PathnameAbsent PathnameKind = iota
	// PathnameSpecial marks a bracketed kernel pseudo-path like [heap].
	PathnameSpecial
	// PathnameDeleted marks a path carrying the kernel's " (deleted)"
	// suffix. The suffix stays in Raw: a real path ending in that text
	// is indistinguishable from the annotation.
	PathnameDeleted
	// PathnamePath marks an ordinary file path.
	PathnamePath
)

var pathnameKindNames = [...]string{
	PathnameAbsent:  "absent",
	PathnameSpecial: "special",
	PathnameDeleted: "deleted",
	PathnamePath:    "path",
}

func (k PathnameKind) String() string {
	if k >= 0 && int(k) < len(pathnameKindNames) {
		return pathnameKindNames[k]
	}
	return fmt.Sprintf("PathnameKind(%d)", int(k))
}

func (k PathnameKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Pathname is the classified trailing field. Raw holds the source text
// unmodified; it is empty only for PathnameAbsent.
type Pathname struct {
	Kind PathnameKind `json:"kind"`
	Raw  string       `json:"raw,omitempty"`
}

// specialNames are the well-known pseudo-paths the kernel emits.
var specialNames = map[string]string{
	"[stack]":    "stack",
	"[heap]":     "heap",
	"[vdso]":     "vdso",
	"[vvar]":     "vvar",
	"[vsyscall]": "vsyscall",
}

// SpecialName returns the short name of a well-known pseudo-path, or
// "" when the pathname is not one.
func (p Pathname) SpecialName() string {
	if p.Kind != PathnameSpecial {
		return ""
	}
	return specialNames[p.Raw]
}

// Map is one parsed mapping line. Fields are independent; none can be
// inferred from another.
type Map struct {
	AddressRange AddressRange `json:"address_range"`
	Permissions  Permissions  `json:"permissions"`
	Offset       uint64       `json:"offset"`
	Device       Device       `json:"device"`
	Inode        uint64       `json:"inode"`
	Pathname     Pathname     `json:"pathname"`
}

// String formats the map back into the source line layout (lowercase
// hex, single-space separators, pathname verbatim). Parsing the result
// yields an equal Map.
func (m Map) String() string {
	line := fmt.Sprintf("%s %s %x %s %d",
		m.AddressRange, m.Permissions, m.Offset, m.Device, m.Inode)
	if m.Pathname.Raw != "" {
		line += " " + m.Pathname.Raw
	}
	return line
}

// Maps is the ordered mapping list of one process snapshot. Source
// line order is preserved verbatim; no sorting or deduplication.
type Maps []Map

// Parser parses maps listings. The zero value enforces end > begin on
// every address range. That ordering is a format convention rather
// than a documented kernel guarantee, so LooseAddressOrder can disable
// the check.
type Parser struct {
	LooseAddressOrder bool
}

// ParseString parses a complete multi-line listing. The first line
// that fails either stage aborts the whole parse; no partial result is
// returned.
func (p Parser) ParseString(data string) (Maps, error) {
	data = strings.TrimSuffix(data, "\n")
	if data == "" {
		return Maps{}, nil
	}
	lines := strings.Split(data, "\n")
	result := make(Maps, 0, len(lines))
	for i, line := range lines {
		m, err := p.parseLine(line, i)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

// ParseReader parses a listing read to EOF from r.
func (p Parser) ParseReader(r io.Reader) (Maps, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.ParseString(string(data))
}

// FromPid reads and parses the listing of a live process with this
// parser's strictness.
func (p Parser) FromPid(pid int) (Maps, error) {
	data, err := proc.ReadMaps(pid)
	if err != nil {
		return nil, err
	}
	return p.ParseString(data)
}

// FromPath reads and parses a saved listing with this parser's
// strictness.
func (p Parser) FromPath(path string) (Maps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseString(string(data))
}

func (p Parser) parseLine(line string, idx int) (Map, error) {
	tree, serr := lexLine(line)
	if serr != nil {
		serr.Line = idx
		return Map{}, serr
	}
	return buildMap(tree, idx, !p.LooseAddressOrder)
}

// ParseString parses a listing with the default strict parser.
func ParseString(data string) (Maps, error) {
	return Parser{}.ParseString(data)
}

// ParseReader parses a listing from r with the default strict parser.
func ParseReader(r io.Reader) (Maps, error) {
	return Parser{}.ParseReader(r)
}

// FromPid reads and parses the maps listing of a live process with the
// default strict parser. Source access failures from pkg/proc pass
// through untouched, so callers can tell a vanished or forbidden
// process from malformed input with errors.Is/As.
func FromPid(pid int) (Maps, error) {
	return Parser{}.FromPid(pid)
}

// FromPath reads and parses a saved listing from a file.
func FromPath(path string) (Maps, error) {
	return Parser{}.FromPath(path)
}

// IsParseError reports whether err originated in the parser itself
// (either stage) rather than in source access.
func IsParseError(err error) bool {
	var syn *SyntaxError
	var sem *SemanticError
	return errors.As(err, &syn) || errors.As(err, &sem)
}
