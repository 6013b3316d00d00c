// Package hook runs user-provided Tengo scripts on mod lifecycle events.
// Hook failures are reported to the caller but are never allowed to fail the
// operation that triggered them.
package hook

import (
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/haldre/modhaven/pkg/errors"
)

// Type identifies a lifecycle event a script can attach to.
type Type string

// Supported hook types.
const (
	PostInstall Type = "post-install"
	PostEnable  Type = "post-enable"
	PostDisable Type = "post-disable"
)

// Context carries mod information into a hook script.
type Context struct {
	ModID      string
	ModName    string
	ModVersion string
	ModPath    string
	Vars       map[string]interface{}
}

// Manager registers and executes hook scripts.
type Manager struct {
	mu      sync.RWMutex
	scripts map[Type]string
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{scripts: make(map[Type]string)}
}

// Add registers or replaces the script for a hook type.
func (m *Manager) Add(hookType Type, script string) error {
	if hookType == "" {
		return errors.ErrHookTypeEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[hookType] = script
	return nil
}

// Has reports whether a script is registered for the hook type.
func (m *Manager) Has(hookType Type) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.scripts[hookType]
	return ok
}

// Execute runs the script registered for the hook type, if any. The script
// may set an "err" variable (string or error) to signal failure.
func (m *Manager) Execute(hookType Type, ctx Context) error {
	m.mu.RLock()
	script, ok := m.scripts[hookType]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	instance := tengo.NewScript([]byte(script))
	instance.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "text", "times"))

	_ = instance.Add("modId", ctx.ModID)
	_ = instance.Add("modName", ctx.ModName)
	_ = instance.Add("modVersion", ctx.ModVersion)
	_ = instance.Add("modPath", ctx.ModPath)
	for k, v := range ctx.Vars {
		_ = instance.Add(k, v)
	}

	compiled, err := instance.Run()
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: %v", hookType, err)
	}

	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return errors.Wrap(errors.ErrHookScript, v.Error())
		case string:
			if v != "" {
				return errors.Wrap(errors.ErrHookScript, v)
			}
		}
	}
	return nil
}
