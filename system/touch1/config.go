// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"encoding/json"
	"os"

	"github.com/linuxdeepin/go-lib/utils"
)

// Config is the on-disk daemon configuration.
type Config struct {
	ScreenWidth   float64       `json:"screen_width"`
	ScreenHeight  float64       `json:"screen_height"`
	ReadOnly      bool          `json:"read_only"`
	EnableGesture bool          `json:"enable_gesture"`
	Gesture       GestureConfig `json:"gesture"`
	Verbose       int           `json:"verbose"`
}

func defaultConfig() *Config {
	return &Config{
		ScreenWidth:   1080,
		ScreenHeight:  2400,
		EnableGesture: true,
		Gesture:       defaultGestureConfig(),
	}
}

func loadConfig(filename string) (*Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	conf := defaultConfig()
	err = json.Unmarshal(contents, conf)
	if err != nil {
		return nil, err
	}
	return conf, nil
}

func getConfigPath() string {
	suffix := "cpu-draw/touch/conf.json"
	filename := "/etc/" + suffix
	if utils.IsFileExist(filename) {
		return filename
	}
	return "/usr/share/" + suffix
}
