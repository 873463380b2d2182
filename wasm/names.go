package wasm

import (
	"fmt"

	"github.com/wippyai/wasm2c/wasm/internal/binary"
)

// Name section subsection IDs.
const (
	NameSubsectionModule   byte = 0
	NameSubsectionFunction byte = 1
	NameSubsectionLocal    byte = 2
	NameSubsectionGlobal   byte = 7
)

// NameMap maps an index to a debug name.
type NameMap map[uint32]string

// Names holds the contents of the "name" custom section.
type Names struct {
	Functions NameMap
	Globals   NameMap
	Locals    map[uint32]NameMap // function index -> local index -> name
	Module    string
}

// Names decodes the module's "name" custom section. A module without one
// returns empty maps. Malformed subsections are reported as errors; callers
// that only want best-effort names can ignore the error and use the result,
// which holds every subsection decoded before the failure.
func (m *Module) Names() (*Names, error) {
	cs, ok := m.CustomSection("name")
	if !ok {
		return newNames(), nil
	}
	return ParseNames(cs.Data)
}

func newNames() *Names {
	return &Names{
		Functions: NameMap{},
		Globals:   NameMap{},
		Locals:    map[uint32]NameMap{},
	}
}

// ParseNames decodes a name section payload.
func ParseNames(data []byte) (*Names, error) {
	n := newNames()
	r := binary.NewReader(data)

	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return n, r.WrapError("name", err)
		}
		size, err := r.ReadU32()
		if err != nil {
			return n, r.WrapError("name", err)
		}
		sr, err := r.Sub(int(size))
		if err != nil {
			return n, r.WrapError("name", err)
		}

		switch id {
		case NameSubsectionModule:
			n.Module, err = sr.ReadName()
		case NameSubsectionFunction:
			err = readNameMap(sr, n.Functions)
		case NameSubsectionGlobal:
			err = readNameMap(sr, n.Globals)
		case NameSubsectionLocal:
			err = readIndirectNameMap(sr, n.Locals)
		default:
			// Label, type, table and other extended subsections are skipped.
		}
		if err != nil {
			return n, sr.WrapError(fmt.Sprintf("name subsection %d", id), err)
		}
	}
	return n, nil
}

func readNameMap(r *binary.Reader, into NameMap) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		into[idx] = name
	}
	return nil
}

func readIndirectNameMap(r *binary.Reader, into map[uint32]NameMap) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		inner := NameMap{}
		if err := readNameMap(r, inner); err != nil {
			return err
		}
		into[idx] = inner
	}
	return nil
}
