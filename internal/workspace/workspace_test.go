package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_CRUD(t *testing.T) {
	tree := NewTree()

	require.NoError(t, tree.CreateFile("Counter.sol", "contract Counter {}"))
	require.NoError(t, tree.CreateFile("lib/Math.sol", "library Math {}"))

	content, err := tree.ReadFile("Counter.sol")
	require.NoError(t, err)
	assert.Equal(t, "contract Counter {}", content)

	require.NoError(t, tree.WriteFile("lib/Math.sol", "library Math { }"))
	content, err = tree.ReadFile("lib/Math.sol")
	require.NoError(t, err)
	assert.Equal(t, "library Math { }", content)

	require.NoError(t, tree.Rename("Counter.sol", "Main.sol"))
	_, err = tree.ReadFile("Counter.sol")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tree.ReadFile("Main.sol")
	require.NoError(t, err)

	require.NoError(t, tree.Delete("lib"))
	_, err = tree.ReadFile("lib/Math.sol")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTree_Errors(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.CreateFile("a/b.sol", "x"))

	assert.ErrorIs(t, tree.CreateFile("a/b.sol", "y"), ErrExists)
	assert.ErrorIs(t, tree.CreateFile("a", "y"), ErrExists)

	_, err := tree.ReadFile("a")
	assert.ErrorIs(t, err, ErrIsFolder)
	_, err = tree.ReadFile("missing.sol")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, tree.Delete("missing.sol"), ErrNotFound)
	assert.ErrorIs(t, tree.WriteFile("missing.sol", ""), ErrNotFound)
}

func TestTree_Flatten(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.CreateFile("Main.sol", "main"))
	require.NoError(t, tree.CreateFile("lib/Math.sol", "math"))
	require.NoError(t, tree.CreateFile("lib/deep/Set.sol", "set"))

	assert.Equal(t, map[string]string{
		"Main.sol":         "main",
		"lib/Math.sol":     "math",
		"lib/deep/Set.sol": "set",
	}, tree.Flatten())
}

func TestTree_WalkOrder(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.CreateFile("b.sol", ""))
	require.NoError(t, tree.CreateFile("a.sol", ""))

	var order []string
	tree.Walk(func(path string, _ *File) { order = append(order, path) })
	assert.Equal(t, []string{"a.sol", "b.sol"}, order)
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.sol"), []byte("main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "Math.sol"), []byte("math"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	tree, err := FromDir(dir, ".sol")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Main.sol":     "main",
		"lib/Math.sol": "math",
	}, tree.Flatten())
}
