package ir

import (
	"strconv"
	"strings"
)

func importedFuncName(idx uint32) string   { return "fimport$" + strconv.FormatUint(uint64(idx), 10) }
func definedFuncName(idx uint32) string    { return strconv.FormatUint(uint64(idx), 10) }
func importedGlobalName(idx uint32) string { return "gimport$" + strconv.FormatUint(uint64(idx), 10) }
func definedGlobalName(idx uint32) string  { return "global$" + strconv.FormatUint(uint64(idx), 10) }
func labelName(n int) string               { return "label$" + strconv.Itoa(n) }

// Demangle extracts a readable path from an Itanium-style Rust symbol
// (_ZN<len><name>...E), dropping hash suffixes. Other names are returned as is.
func Demangle(name string) string {
	if !strings.HasPrefix(name, "_ZN") {
		return name
	}

	s := name[3:]
	var parts []string

	for len(s) > 0 && s[0] != 'E' {
		lenEnd := 0
		for lenEnd < len(s) && s[lenEnd] >= '0' && s[lenEnd] <= '9' {
			lenEnd++
		}
		if lenEnd == 0 {
			break
		}

		length, err := strconv.Atoi(s[:lenEnd])
		if err != nil {
			break
		}
		s = s[lenEnd:]
		if length > len(s) {
			break
		}

		part := s[:length]
		s = s[length:]

		if isRustHash(part) {
			continue
		}
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return name
	}
	return strings.Join(parts, "::")
}

// isRustHash matches the 17 character h<16 hex> disambiguator.
func isRustHash(part string) bool {
	if len(part) != 17 || part[0] != 'h' {
		return false
	}
	for i := 1; i < 17; i++ {
		c := part[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Identifier turns a debug name into something usable after the func
// prefix: characters outside [A-Za-z0-9_$] become '_'.
func Identifier(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// nameTable hands out unique names. Debug names may collide after
// sanitising, so later duplicates get a numeric suffix.
type nameTable struct {
	used map[string]int
}

func newNameTable() *nameTable {
	return &nameTable{used: map[string]int{}}
}

func (t *nameTable) claim(name string) string {
	n, seen := t.used[name]
	t.used[name] = n + 1
	if !seen {
		return name
	}
	for {
		candidate := name + "_" + strconv.Itoa(n)
		n++
		if _, taken := t.used[candidate]; !taken {
			t.used[name] = n
			t.used[candidate] = 1
			return candidate
		}
	}
}
