/*
Copyright (C) 2026  MemCP Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/dc0d/onexit"
	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads an IOV configuration file. Watch registers an
// onexit cleanup that closes the underlying fsnotify watcher.
type Watcher struct {
	path string
	fw   *fsnotify.Watcher

	mu      sync.Mutex
	current Parameter
}

// Watch parses path once, then starts watching its containing directory
// for writes, invoking onChange with every successfully re-parsed
// Parameter. A rewrite that cannot be read or parsed is skipped without
// logging and without calling onChange; it is not fatal to the watch
// loop, and Current keeps the last good Parameter.
func Watch(path string, onChange func(Parameter)) (*Watcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(string(data))
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{path: path, fw: fw, current: p}
	go w.loop(onChange)
	onexit.Register(func() { w.fw.Close() })
	return w, nil
}

func (w *Watcher) loop(onChange func(Parameter)) {
	target := filepath.Clean(w.path)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			data, err := os.ReadFile(w.path)
			if err != nil {
				continue
			}
			p, err := Parse(string(data))
			if err != nil {
				continue
			}
			w.mu.Lock()
			w.current = p
			w.mu.Unlock()
			onChange(p)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Current returns the most recently successfully parsed Parameter.
func (w *Watcher) Current() Parameter {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Close stops the watch loop. Also invoked at process exit via the
// onexit hook registered by Watch.
func (w *Watcher) Close() error { return w.fw.Close() }
