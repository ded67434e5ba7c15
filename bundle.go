package queuen

import (
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/juju/errors"

	"github.com/korawend/queuen/ast"
	"github.com/korawend/queuen/lex"
	"github.com/korawend/queuen/parse"
)

// Logger prints compile errors and update notices when using the
// WatchFiles feature.
var Logger = log.New(os.Stderr, "[queuen] ", 0)

type scriptFile struct{ name, content string }

// Bundle is a collection of queuen script sources. It acts as input for the
// compiler; methods chain and defer their errors to Compile.
type Bundle struct {
	files    []scriptFile
	err      error
	watcher  *fsnotify.Watcher
	onUpdate func(*Registry)
}

func NewBundle() *Bundle {
	return &Bundle{}
}

// WatchFiles tells the bundle to watch any script files added to it,
// recompile as necessary, and propagate the updates to the compiled
// registry. It should be called once, before adding any files.
func (b *Bundle) WatchFiles(watch bool) *Bundle {
	if watch && b.err == nil && b.watcher == nil {
		b.watcher, b.err = fsnotify.NewWatcher()
	}
	return b
}

// OnUpdate registers a callback invoked with the registry after each
// successful watch-triggered recompile.
func (b *Bundle) OnUpdate(fn func(*Registry)) *Bundle {
	b.onUpdate = fn
	return b
}

// AddScriptDir adds all *.qn files found within the given directory
// (including sub-directories) to the bundle.
func (b *Bundle) AddScriptDir(root string) *Bundle {
	var err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".qn") {
			return nil
		}
		b.AddScriptFile(path)
		return nil
	})
	if err != nil {
		b.err = errors.Annotatef(err, "walking %s", root)
	}
	return b
}

// AddScriptFile adds the given script file's text to this bundle.
func (b *Bundle) AddScriptFile(filename string) *Bundle {
	content, err := ioutil.ReadFile(filename)
	if err != nil {
		b.err = errors.Annotatef(err, "reading %s", filename)
		return b
	}
	if b.err == nil && b.watcher != nil {
		if err := b.watcher.Add(filename); err != nil {
			b.err = errors.Annotatef(err, "watching %s", filename)
		}
	}
	return b.AddScriptString(filename, string(content))
}

// AddScriptString adds the given script text under the given name.
func (b *Bundle) AddScriptString(name, content string) *Bundle {
	b.files = append(b.files, scriptFile{name, content})
	return b
}

// Compile tokenizes and parses every script in the bundle. When watching,
// a successful compile also starts the recompiler.
func (b *Bundle) Compile() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}

	var registry = &Registry{}
	for _, file := range b.files {
		stmts, err := compileScript(file)
		if err != nil {
			return nil, err
		}
		if err := registry.Add(Script{Name: file.name, Source: file.content, Statements: stmts}); err != nil {
			return nil, err
		}
	}

	if b.watcher != nil {
		go b.recompiler(registry)
	}
	return registry, nil
}

func compileScript(file scriptFile) ([]ast.Node, error) {
	var buf = lex.NewTokenBufferString(file.content, nil)
	stmts, err := parse.All(buf)
	if err != nil {
		if perr, ok := err.(*parse.Error); ok {
			perr.Filename = file.name
			return nil, perr
		}
		return nil, errors.Annotatef(err, "compiling %s", file.name)
	}
	return stmts, nil
}

// recompiler rebuilds the registry whenever a watched file changes,
// swapping the compiled scripts in place on success.
func (b *Bundle) recompiler(reg *Registry) {
	for {
		select {
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			// A rename or remove drops the watch; add it back after the
			// editor has finished replacing the file.
			if ev.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				time.Sleep(10 * time.Millisecond)
				if err := b.watcher.Add(ev.Name); err != nil {
					Logger.Println(err)
				}
			}

			var bundle = NewBundle()
			for _, file := range b.files {
				bundle.AddScriptFile(file.name)
			}
			registry, err := bundle.Compile()
			if err != nil {
				Logger.Println(err)
				continue
			}

			*reg = *registry
			Logger.Printf("update successful (%v)", ev)
			if b.onUpdate != nil {
				b.onUpdate(reg)
			}

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			Logger.Println(err)
		}
	}
}
