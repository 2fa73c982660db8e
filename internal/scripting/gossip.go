package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// GossipRunner owns one sandboxed LState holding every loaded gossip
// script. Each script file defines one or more global functions of the form
// `function <name>(player_name) return "..." end`; creature templates
// reference them by name.
//
// The mutex serializes calls; the LState is single-threaded.
type GossipRunner struct {
	mu  sync.Mutex
	l   *lua.LState
	log *zap.Logger
}

// NewGossipRunner creates a sandboxed VM and executes every *.lua file in
// scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Returns a ready runner, or an error on the first Lua load
// failure. The caller must Close the runner when done.
func NewGossipRunner(scriptDir string, instLimit int, log *zap.Logger) (*GossipRunner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	L := NewSandboxedState(instLimit)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	log.Info("gossip scripts loaded", zap.Int("files", len(luaFiles)))
	return &GossipRunner{l: L, log: log}, nil
}

// RunGossip calls the named global gossip function with the player name and
// returns its string result.
//
// Postcondition: Returns the script's line, or an error when the function
// is undefined, fails at runtime, or returns a non-string. Callers fall
// back to the creature's static gossip line on error.
func (r *GossipRunner) RunGossip(script, playerName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn := r.l.GetGlobal(script)
	if fn == lua.LNil {
		return "", fmt.Errorf("scripting: gossip function %q is not defined", script)
	}

	if err := r.l.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(playerName)); err != nil {
		r.log.Warn("gossip script failed",
			zap.String("script", script),
			zap.Error(err),
		)
		return "", fmt.Errorf("scripting: running %q: %w", script, err)
	}

	ret := r.l.Get(-1)
	r.l.Pop(1)

	line, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("scripting: %q returned %s, want string", script, ret.Type())
	}
	return string(line), nil
}

// Close releases the Lua VM.
func (r *GossipRunner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.l.Close()
}
