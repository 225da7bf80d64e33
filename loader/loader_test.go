// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package loader

import (
	"testing"

	"github.com/linuxdeepin/go-lib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testModule struct {
	*ModuleBase
	deps  []string
	order *[]string
}

func newTestModule(name string, deps []string, order *[]string) *testModule {
	m := &testModule{deps: deps, order: order}
	m.ModuleBase = NewModuleBase(name, m, log.NewLogger("test/"+name))
	return m
}

func (m *testModule) GetDependencies() []string {
	return m.deps
}

func (m *testModule) Start() error {
	*m.order = append(*m.order, m.Name())
	return nil
}

func (m *testModule) Stop() error {
	return nil
}

func newTestLoader() *Loader {
	return &Loader{
		modules: Modules{},
		log:     log.NewLogger("test/loader"),
	}
}

func Test_enableModulesDependencyOrder(t *testing.T) {
	l := newTestLoader()
	var order []string
	l.addModule(newTestModule("a", []string{"b"}, &order))
	l.addModule(newTestModule("b", []string{"c"}, &order))
	l.addModule(newTestModule("c", nil, &order))

	err := l.enableModules([]string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func Test_enableModulesCycle(t *testing.T) {
	l := newTestLoader()
	var order []string
	l.addModule(newTestModule("a", []string{"b"}, &order))
	l.addModule(newTestModule("b", []string{"a"}, &order))

	err := l.enableModules([]string{"a"})
	assert.Error(t, err)
}

func Test_enableModulesUnknown(t *testing.T) {
	l := newTestLoader()
	var order []string
	l.addModule(newTestModule("a", []string{"missing"}, &order))

	err := l.enableModules([]string{"a"})
	assert.Error(t, err)
}

func Test_enableModulesSharedDependency(t *testing.T) {
	l := newTestLoader()
	var order []string
	l.addModule(newTestModule("a", []string{"c"}, &order))
	l.addModule(newTestModule("b", []string{"c"}, &order))
	l.addModule(newTestModule("c", nil, &order))

	err := l.enableModules([]string{"a", "b"})
	require.NoError(t, err)
	// the shared dependency starts exactly once
	assert.Equal(t, []string{"c", "a", "b"}, order)
}

func Test_moduleBaseEnable(t *testing.T) {
	var order []string
	m := newTestModule("a", nil, &order)

	assert.False(t, m.IsEnable())
	require.NoError(t, m.Enable(true))
	assert.True(t, m.IsEnable())

	// re-enabling an enabled module is an error
	assert.Error(t, m.Enable(true))

	require.NoError(t, m.Enable(false))
	assert.False(t, m.IsEnable())
}

func Test_registerDuplicate(t *testing.T) {
	l := newTestLoader()
	var order []string
	l.addModule(newTestModule("a", nil, &order))
	l.addModule(newTestModule("a", nil, &order))

	assert.Len(t, l.list(), 1)
}
