package ir

import "strconv"

// Kind identifies an expression node. Values match the expression ids of the
// reference toolchain, so an unsupported node renders as the same
// unimplemented<id> placeholder a reader may already know.
type Kind uint32

const (
	KindInvalid Kind = iota
	KindBlock
	KindIf
	KindLoop
	KindBreak
	KindSwitch
	KindCall
	KindCallIndirect
	KindLocalGet
	KindLocalSet
	KindGlobalGet
	KindGlobalSet
	KindLoad
	KindStore
	KindConst
	KindUnary
	KindBinary
	KindSelect
	KindDrop
	KindReturn
	KindMemorySize
	KindMemoryGrow
	KindNop
	KindUnreachable
)

// Kinds without a dedicated node. They only appear as Unsupported.ID.
const (
	KindMemoryInit Kind = iota + 36
	KindDataDrop
	KindMemoryCopy
	KindMemoryFill
	KindPop
	KindRefNull
	KindRefIsNull
	KindRefFunc
	KindRefEq
	KindTableGet
	KindTableSet
	KindTableSize
	KindTableGrow
	KindTableFill
	KindTableCopy
	KindTableInit
	KindElemDrop
)

var kindNames = map[Kind]string{
	KindInvalid:      "invalid",
	KindBlock:        "block",
	KindIf:           "if",
	KindLoop:         "loop",
	KindBreak:        "break",
	KindSwitch:       "switch",
	KindCall:         "call",
	KindCallIndirect: "call_indirect",
	KindLocalGet:     "local.get",
	KindLocalSet:     "local.set",
	KindGlobalGet:    "global.get",
	KindGlobalSet:    "global.set",
	KindLoad:         "load",
	KindStore:        "store",
	KindConst:        "const",
	KindUnary:        "unary",
	KindBinary:       "binary",
	KindSelect:       "select",
	KindDrop:         "drop",
	KindReturn:       "return",
	KindMemorySize:   "memory.size",
	KindMemoryGrow:   "memory.grow",
	KindNop:          "nop",
	KindUnreachable:  "unreachable",
	KindMemoryInit:   "memory.init",
	KindDataDrop:     "data.drop",
	KindMemoryCopy:   "memory.copy",
	KindMemoryFill:   "memory.fill",
	KindPop:          "pop",
	KindRefNull:      "ref.null",
	KindRefIsNull:    "ref.is_null",
	KindRefFunc:      "ref.func",
	KindRefEq:        "ref.eq",
	KindTableGet:     "table.get",
	KindTableSet:     "table.set",
	KindTableSize:    "table.size",
	KindTableGrow:    "table.grow",
	KindTableFill:    "table.fill",
	KindTableCopy:    "table.copy",
	KindTableInit:    "table.init",
	KindElemDrop:     "elem.drop",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind#" + strconv.FormatUint(uint64(k), 10)
}
