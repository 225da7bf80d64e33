// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package loader manages daemon module registration and lifecycle.
// Modules register themselves from package init functions and are
// started in dependency order.
package loader

import (
	"fmt"
	"sync"

	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"
)

type Loader struct {
	lock    sync.Mutex
	modules Modules
	log     *log.Logger
	service *dbusutil.Service
}

var loaderInitializer sync.Once
var _loader *Loader

func getLoader() *Loader {
	loaderInitializer.Do(func() {
		_loader = &Loader{
			modules: Modules{},
			log:     log.NewLogger("daemon/loader"),
		}
	})
	return _loader
}

func SetService(s *dbusutil.Service) {
	getLoader().service = s
}

func GetService() *dbusutil.Service {
	return getLoader().service
}

func Register(m Module) {
	getLoader().addModule(m)
}

func List() []Module {
	return getLoader().list()
}

func GetModule(name string) Module {
	l := getLoader()
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.modules[name]
}

func SetLogLevel(pri log.Priority) {
	l := getLoader()
	l.log.SetLogLevel(pri)

	l.lock.Lock()
	defer l.lock.Unlock()
	for _, module := range l.modules {
		module.SetLogLevel(pri)
	}
}

// StartAll enables every registered module, dependencies first.
func StartAll() {
	l := getLoader()
	names := make([]string, 0, len(l.modules))
	for name := range l.modules {
		names = append(names, name)
	}
	err := l.enableModules(names)
	if err != nil {
		l.log.Error("failed to enable modules:", err)
	}
}

// StopAll disables every enabled module.
func StopAll() {
	l := getLoader()
	for _, m := range l.list() {
		if !m.IsEnable() {
			continue
		}
		if err := m.Enable(false); err != nil {
			l.log.Warningf("stop module %s failed: %v", m.Name(), err)
		}
	}
}

func (l *Loader) addModule(m Module) {
	l.lock.Lock()
	defer l.lock.Unlock()

	name := m.Name()
	if _, exist := l.modules[name]; exist {
		l.log.Debug("Register", name, "is already registered")
		return
	}
	l.log.Debug("Register module:", name)
	l.modules[name] = m
}

func (l *Loader) list() []Module {
	l.lock.Lock()
	defer l.lock.Unlock()

	modules := make([]Module, 0, len(l.modules))
	for _, m := range l.modules {
		modules = append(modules, m)
	}
	return modules
}

// enableModules starts the named modules after their dependencies, and
// fails on unknown names or dependency cycles.
func (l *Loader) enableModules(names []string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)

	var start func(name string) error
	start = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle at module %s", name)
		}

		module, ok := l.modules[name]
		if !ok {
			return fmt.Errorf("no such module: %s", name)
		}

		state[name] = visiting
		for _, dep := range module.GetDependencies() {
			if err := start(dep); err != nil {
				return err
			}
		}
		state[name] = done

		l.log.Info("enable module", name)
		if err := module.Enable(true); err != nil {
			return fmt.Errorf("enable module %s failed: %w", name, err)
		}
		return nil
	}

	for _, name := range names {
		if err := start(name); err != nil {
			return err
		}
	}
	return nil
}
