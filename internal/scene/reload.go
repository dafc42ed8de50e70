package scene

import (
	"fmt"
	"path/filepath"

	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// Reloader keeps the scene built from one file alive and rebuilds it when
// a change broadcast names that file.
type Reloader struct {
	rt       *xnew.Runtime
	reg      *Registry
	path     string
	logger   log.Logger
	root     *xnew.Node
	listener *xnew.Node
	reloads  int
}

// NewReloader builds the scene at path and listens for event, whose first
// argument must be the absolute path of the changed file.
func NewReloader(rt *xnew.Runtime, reg *Registry, path, event string) (*Reloader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve scene path: %w", err)
	}
	r := &Reloader{rt: rt, reg: reg, path: abs, logger: rt.Logger()}

	s, err := Load(abs)
	if err != nil {
		return nil, err
	}
	if r.root, err = Build(rt, reg, s); err != nil {
		return nil, err
	}

	r.listener, err = rt.New(xnew.Detached(), xnew.Stopped())
	if err != nil {
		r.root.Finalize()
		return nil, err
	}
	r.listener.On(event, func(args ...any) {
		if len(args) == 0 {
			return
		}
		if changed, ok := args[0].(string); ok && changed == r.path {
			_ = r.Reload()
		}
	})
	return r, nil
}

// Reload rebuilds the scene from its file. On a load or build error the
// current tree stays in place.
func (r *Reloader) Reload() error {
	s, err := Load(r.path)
	if err != nil {
		r.logger.Warn("scene reload failed", log.String("path", r.path), log.Err(err))
		return err
	}
	for _, name := range s.Components() {
		if _, ok := r.reg.Get(name); !ok {
			err := fmt.Errorf("%w: %q", ErrUnknownComponent, name)
			r.logger.Warn("scene reload failed", log.String("path", r.path), log.Err(err))
			return err
		}
	}

	if r.root != nil {
		r.root.Finalize()
	}
	root, err := Build(r.rt, r.reg, s)
	if err != nil {
		r.root = nil
		r.logger.Error("scene rebuild failed", log.String("path", r.path), log.Err(err))
		return err
	}
	r.root = root
	r.reloads++
	r.logger.Info("scene reloaded", log.String("scene", s.Name), log.Int("nodes", r.rt.Len()))
	return nil
}

// Root returns the root of the current scene, or nil after a failed rebuild.
func (r *Reloader) Root() *xnew.Node { return r.root }

// Reloads returns how many times the scene was rebuilt.
func (r *Reloader) Reloads() int { return r.reloads }

// Close finalizes the scene and stops listening.
func (r *Reloader) Close() {
	r.listener.Finalize()
	if r.root != nil {
		r.root.Finalize()
	}
}
