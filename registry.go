package queuen

import (
	"fmt"
	"io"

	"github.com/korawend/queuen/ast"
	"github.com/korawend/queuen/drive"
)

// Script is one compiled queuen source file: its statements in order, plus
// the source retained for diagnostics.
type Script struct {
	Name       string
	Source     string
	Statements []ast.Node
}

// Run executes the script's statements in order against w.
func (s Script) Run(w io.Writer, limit int) error {
	if limit <= 0 {
		limit = drive.Limit
	}
	for _, stmt := range s.Statements {
		if err := drive.Run(w, stmt, limit); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return nil
}

// Registry provides access to a collection of compiled scripts, in the
// order they were added.
type Registry struct {
	Scripts []Script

	byName map[string]int
}

// Add registers a compiled script. Script names must be unique within a
// registry.
func (r *Registry) Add(s Script) error {
	if r.byName == nil {
		r.byName = make(map[string]int)
	}
	if _, ok := r.byName[s.Name]; ok {
		return fmt.Errorf("script %q is already registered", s.Name)
	}
	r.byName[s.Name] = len(r.Scripts)
	r.Scripts = append(r.Scripts, s)
	return nil
}

// Script looks a script up by name.
func (r *Registry) Script(name string) (Script, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Script{}, false
	}
	return r.Scripts[i], true
}

// RunAll executes every script in registration order, stopping at the
// first failure.
func (r *Registry) RunAll(w io.Writer, limit int) error {
	for _, s := range r.Scripts {
		if err := s.Run(w, limit); err != nil {
			return err
		}
	}
	return nil
}
