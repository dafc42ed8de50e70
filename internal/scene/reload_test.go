package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/xnew/pkg/xnew"
)

func TestReloader(t *testing.T) {
	var seen []string
	reg := labelRegistry(t, &seen)

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	host := xnew.NewVirtualHost(xnew.VirtualConfig{})
	rt, err := xnew.New(host)
	require.NoError(t, err)

	r, err := NewReloader(rt, reg, path, "#file.changed")
	require.NoError(t, err)
	first := r.Root()
	require.NotNil(t, first)
	assert.Len(t, rt.Lookup("layer"), 2)

	// other files are ignored
	rt.Emit("#file.changed", filepath.Join(filepath.Dir(abs), "other.yaml"))
	assert.Same(t, first, r.Root())

	require.NoError(t, os.WriteFile(path, []byte("name: small\nroot:\n  tags: layer\n"), 0o644))
	rt.Emit("#file.changed", abs)

	assert.True(t, first.IsFinalized())
	assert.NotSame(t, first, r.Root())
	assert.Len(t, rt.Lookup("layer"), 1)
	assert.Equal(t, 1, r.Reloads())

	// a broken file keeps the current tree
	current := r.Root()
	require.NoError(t, os.WriteFile(path, []byte("name: [broken"), 0o644))
	rt.Emit("#file.changed", abs)
	assert.Same(t, current, r.Root())
	assert.False(t, current.IsFinalized())

	require.NoError(t, os.WriteFile(path, []byte("name: x\nroot:\n  components:\n    - name: ghost\n"), 0o644))
	assert.ErrorIs(t, r.Reload(), ErrUnknownComponent)
	assert.Same(t, current, r.Root())

	r.Close()
	assert.Zero(t, rt.Len())
}

func TestNewReloader_MissingFile(t *testing.T) {
	host := xnew.NewVirtualHost(xnew.VirtualConfig{})
	rt, err := xnew.New(host)
	require.NoError(t, err)

	_, err = NewReloader(rt, NewRegistry(), filepath.Join(t.TempDir(), "none.yaml"), "#file.changed")
	assert.Error(t, err)
	assert.Zero(t, rt.Len())
}
