package loader

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"

	"github.com/nathoo/fidoquest/types"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	quests []rawQuest
}

// Options controls how strictly content is checked.
type Options struct {
	// Dev turns validation failures into a load error. Otherwise they are
	// logged and the quests are returned anyway.
	Dev    bool
	Logger *log.Logger
}

// Load executes every .lua file at the top of fsys in name order, compiles
// the declared quests and validates the collection. The Lua VM is
// discarded after loading.
func Load(fsys fs.FS, opts Options) ([]types.Quest, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading quest directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	luaFiles := sortedLuaFiles(names)
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found")
	}

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		src, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		fn, err := L.Load(bytes.NewReader(src), f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	quests, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling quests: %w", err)
	}

	v := ValidateQuestCollection(quests)
	for _, w := range v.Warnings {
		logf(opts.Logger, "warning: %s", w)
	}
	if !v.Valid {
		for _, e := range v.Errors {
			logf(opts.Logger, "error: %s", e)
		}
		if opts.Dev {
			return nil, v.Err()
		}
	}
	return quests, nil
}

func logf(l *log.Logger, format string, args ...any) {
	if l != nil {
		l.Printf(format, args...)
	}
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not reseed the shared generator.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
