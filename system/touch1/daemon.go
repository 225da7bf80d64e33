// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package touch1 implements the touch-input subsystem: device discovery,
// raw multi-touch ingestion, synthetic-touch injection through a virtual
// device, gesture recognition and orientation-aware coordinate mapping.
package touch1

import (
	"github.com/linuxdeepin/go-lib/log"

	"github.com/KingForeverAmbition/Android-CPU-Draw/loader"
)

const (
	dbusServiceName = "org.cpudraw.Touch1"
	dbusPath        = "/org/cpudraw/Touch1"
	dbusInterface   = dbusServiceName
)

var (
	_m     *Manager
	logger = log.NewLogger(dbusServiceName)
)

type Daemon struct {
	*loader.ModuleBase
}

func init() {
	loader.Register(NewDaemon())
}

func NewDaemon() *Daemon {
	daemon := new(Daemon)
	daemon.ModuleBase = loader.NewModuleBase("touch", daemon, logger)
	return daemon
}

func (*Daemon) GetDependencies() []string {
	return []string{}
}

func (*Manager) GetInterfaceName() string {
	return dbusInterface
}

func (d *Daemon) Start() error {
	logger.Info("start touch daemon")
	service := loader.GetService()

	conf, err := loadConfig(getConfigPath())
	if err != nil {
		logger.Warning("failed to load touch config:", err)
		conf = defaultConfig()
	}
	if conf.Verbose > 0 {
		logger.SetLogLevel(log.LevelDebug)
	}

	_m = newManager(service)
	_m.recognizer.config = conf.Gesture
	_m.gestureEnabled = conf.EnableGesture

	err = service.Export(dbusPath, _m)
	if err != nil {
		return err
	}

	err = service.RequestName(dbusServiceName)
	if err != nil {
		return err
	}

	err = _m.init(Vector2{conf.ScreenWidth, conf.ScreenHeight}, conf.ReadOnly)
	if err != nil {
		return err
	}

	return nil
}

func (*Daemon) Stop() error {
	if _m == nil {
		return nil
	}
	_m.destroy()

	service := loader.GetService()
	err := service.StopExport(_m)
	if err != nil {
		return err
	}

	_m = nil
	return nil
}
