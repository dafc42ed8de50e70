// Package filewatch broadcasts file changes into an xnew runtime.
// It watches the parent directories of the configured files, so editors
// that save by rename are picked up too.
package filewatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// DefaultEvent is the broadcast type used when Config.Event is empty.
const DefaultEvent = "#file.changed"

// Plugin implements file watching.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	paths         []string
	event         string
	debounceDelay time.Duration

	// Runtime state
	rt       *xnew.Runtime
	logger   log.Logger
	watcher  *fsnotify.Watcher
	watched  map[string]bool
	pending  map[string]bool
	debounce *time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Config holds configuration options for the file watch plugin.
type Config struct {
	// Paths are the files to watch.
	Paths []string

	// Event is the broadcast type to emit. It must start with "#".
	// Default: "#file.changed"
	Event string

	// DebounceDelay is how long to wait after the last change before
	// broadcasting.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults and no paths.
func DefaultConfig() Config {
	return Config{
		Event:         DefaultEvent,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new file watch plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Event == "" {
		cfg.Event = DefaultEvent
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		paths:         cfg.Paths,
		event:         cfg.Event,
		debounceDelay: cfg.DebounceDelay,
		watched:       make(map[string]bool),
		pending:       make(map[string]bool),
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "filewatch"
}

// Initialize registers the watches and starts the watch loop.
func (p *Plugin) Initialize(ctx context.Context, pc xnew.PluginContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rt = pc.Runtime
	p.logger = pc.Logger

	if len(p.paths) == 0 {
		p.logger.Warn("file watch disabled: no paths configured")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for _, path := range p.paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		p.watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	p.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("file watch plugin initialized", log.Int("files", len(p.watched)))

	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the watch loop and drops pending notifications.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher != nil {
		err := p.watcher.Close()
		p.watcher = nil
		return err
	}
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if !p.watched[name] {
				continue
			}
			p.schedule(ctx, name)

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("file watch: watcher error", log.Err(err))
		}
	}
}

// schedule restarts the debounce timer and remembers path as changed.
func (p *Plugin) schedule(ctx context.Context, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending[path] = true
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.flush()
	})
}

// flush posts one broadcast per changed path onto the runtime goroutine.
func (p *Plugin) flush() {
	p.mu.Lock()
	changed := make([]string, 0, len(p.pending))
	for path := range p.pending {
		changed = append(changed, path)
	}
	p.pending = make(map[string]bool)
	rt := p.rt
	p.mu.Unlock()

	sort.Strings(changed)
	for _, path := range changed {
		path := path
		p.logger.Info("file changed", log.String("path", path))
		rt.Post(func() {
			rt.Emit(p.event, path)
		})
	}
}

// Ensure Plugin implements xnew.Plugin.
var _ xnew.Plugin = (*Plugin)(nil)
