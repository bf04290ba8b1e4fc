package serverconfig

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"
)

// Setting is one flattened SandboxVars entry. Nested tables contribute
// dotted keys, e.g. "ZombieLore.Speed".
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseSandboxVars evaluates SandboxVars.lua source and flattens the
// SandboxVars global into settings sorted by key. Lua table iteration
// order is unspecified, so sorting keeps repeated parses identical.
func ParseSandboxVars(src string) ([]Setting, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.DoString(state, src); err != nil {
		return nil, fmt.Errorf("evaluating sandbox lua: %w", err)
	}

	state.Global("SandboxVars")
	if state.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("SandboxVars table not defined")
	}

	var settings []Setting
	flattenTable(state, -1, "", &settings)
	state.Pop(1)

	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

// LoadSandboxVars reads and parses a SandboxVars file from disk.
func LoadSandboxVars(path string) ([]Setting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sandbox file: %w", err)
	}
	return ParseSandboxVars(string(data))
}

func flattenTable(state *lua.State, index int, prefix string, out *[]Setting) {
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		key, ok := tableKey(state)
		if !ok {
			state.Pop(1)
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		if state.TypeOf(-1) == lua.TypeTable {
			flattenTable(state, -1, key, out)
		} else if value, ok := scalarString(state, -1); ok {
			*out = append(*out, Setting{Key: key, Value: value})
		}
		state.Pop(1)
	}
}

// tableKey reads the key at -2 without converting it in place, which
// would break the Next iteration.
func tableKey(state *lua.State) (string, bool) {
	switch state.TypeOf(-2) {
	case lua.TypeString:
		return state.ToString(-2)
	case lua.TypeNumber:
		if n, ok := state.ToInteger(-2); ok {
			return strconv.Itoa(n), true
		}
	}
	return "", false
}

func scalarString(state *lua.State, index int) (string, bool) {
	switch state.TypeOf(index) {
	case lua.TypeString:
		return state.ToString(index)
	case lua.TypeNumber:
		n, _ := state.ToNumber(index)
		if math.Mod(n, 1) == 0 {
			return strconv.FormatInt(int64(n), 10), true
		}
		return strconv.FormatFloat(n, 'g', -1, 64), true
	case lua.TypeBoolean:
		return strconv.FormatBool(state.ToBoolean(index)), true
	}
	return "", false
}

// UpdateSetting rewrites one `key = value,` assignment in the Lua
// source, preserving the line's indentation. The value is written as
// given; quoting a string value is the caller's concern.
func UpdateSetting(src, key, value string) (string, error) {
	lines := strings.Split(src, "\n")
	prefix := key + " ="
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), prefix) {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		lines[i] = fmt.Sprintf("%s%s = %s,", indent, key, value)
		return strings.Join(lines, "\n"), nil
	}
	return "", fmt.Errorf("setting %q not found", key)
}
