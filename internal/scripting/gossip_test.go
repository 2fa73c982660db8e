package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestRunGossip(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "seer.lua", `
function seer_gossip(player_name)
  return "The bones speak of " .. player_name .. "."
end
`)

	r, err := NewGossipRunner(dir, 0, nil)
	require.NoError(t, err)
	defer r.Close()

	line, err := r.RunGossip("seer_gossip", "Netherblood")
	require.NoError(t, err)
	assert.Equal(t, "The bones speak of Netherblood.", line)
}

func TestRunGossip_UndefinedFunction(t *testing.T) {
	dir := t.TempDir()
	r, err := NewGossipRunner(dir, 0, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.RunGossip("missing", "Netherblood")
	assert.ErrorContains(t, err, "not defined")
}

func TestRunGossip_NonStringReturn(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `
function bad_gossip(player_name)
  return 42
end
`)

	r, err := NewGossipRunner(dir, 0, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.RunGossip("bad_gossip", "Netherblood")
	assert.ErrorContains(t, err, "want string")
}

func TestRunGossip_RuntimeError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "boom.lua", `
function boom_gossip(player_name)
  error("no gossip today")
end
`)

	r, err := NewGossipRunner(dir, 0, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.RunGossip("boom_gossip", "Netherblood")
	assert.Error(t, err)
}

func TestNewGossipRunner_LoadFailure(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `function broken(`)

	_, err := NewGossipRunner(dir, 0, nil)
	assert.Error(t, err)
}

func TestNewGossipRunner_MissingDir(t *testing.T) {
	_, err := NewGossipRunner(filepath.Join(t.TempDir(), "nope"), 0, nil)
	assert.Error(t, err)
}

// TestSandbox_StripsDangerousGlobals verifies the sandbox removes the
// escape hatches OpenBase leaves behind.
func TestSandbox_StripsDangerousGlobals(t *testing.T) {
	L := NewSandboxedState(0)
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		err := L.DoString(`if ` + name + ` ~= nil then error("` + name + ` leaked") end`)
		assert.NoError(t, err, name)
	}
}

// TestSandbox_InstructionLimit verifies a runaway loop is cut off.
func TestSandbox_InstructionLimit(t *testing.T) {
	L := NewSandboxedState(1000)
	defer L.Close()

	err := L.DoString(`while true do end`)
	assert.Error(t, err, "infinite loop must be terminated")
}
