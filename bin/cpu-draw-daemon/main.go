// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"

	// modules:
	_ "github.com/KingForeverAmbition/Android-CPU-Draw/system/touch1"

	"github.com/KingForeverAmbition/Android-CPU-Draw/loader"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"
)

const dbusServiceName = "org.cpudraw.Daemon1"

var logger = log.NewLogger("daemon/cpu-draw-daemon")

func main() {
	service, err := dbusutil.NewSystemService()
	if err != nil {
		logger.Fatal("failed to new system service:", err)
	}

	hasOwner, err := service.NameHasOwner(dbusServiceName)
	if err != nil {
		logger.Fatal("failed to call NameHasOwner:", err)
	}
	if hasOwner {
		logger.Warningf("name %q already has the owner", dbusServiceName)
		os.Exit(1)
	}

	err = service.RequestName(dbusServiceName)
	if err != nil {
		logger.Fatal("failed to request name:", err)
	}

	if os.Getenv("CPU_DRAW_DEBUG") != "" {
		loader.SetLogLevel(log.LevelDebug)
	}

	loader.SetService(service)
	loader.StartAll()
	defer loader.StopAll()

	service.Wait()
}
