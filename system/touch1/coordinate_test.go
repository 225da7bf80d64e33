// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KingForeverAmbition/Android-CPU-Draw/evdev"
)

func newScaleManager(absXMax, absYMax int32, screen Vector2) *Manager {
	m := newManager(nil)
	m.devices = []*TouchDevice{
		{
			AbsX: evdev.AbsInfo{Maximum: absXMax},
			AbsY: evdev.AbsInfo{Maximum: absYMax},
		},
	}
	m.setupScale(screen)
	m.running.Store(true)
	return m
}

func Test_setupScale(t *testing.T) {
	m := newScaleManager(1080, 2400, Vector2{1080, 2400})

	assert.Equal(t, Vector2{2400, 1080}, m.screenSize)
	assert.Equal(t, Vector2{1, 1}, m.touchScale)
	assert.Equal(t, 1.0, m.devices[0].ScaleX)
	assert.Equal(t, 1.0, m.devices[0].ScaleY)

	// same result regardless of the argument's orientation
	m2 := newScaleManager(1080, 2400, Vector2{2400, 1080})
	assert.Equal(t, m.screenSize, m2.screenSize)
	assert.Equal(t, m.touchScale, m2.touchScale)
}

func Test_setupScaleSecondaryDevice(t *testing.T) {
	m := newScaleManager(720, 1600, Vector2{1080, 2400})
	m.devices = append(m.devices, &TouchDevice{
		AbsX: evdev.AbsInfo{Maximum: 360},
		AbsY: evdev.AbsInfo{Maximum: 800},
	})
	m.setupScale(Vector2{1080, 2400})

	// secondary devices scale into the first device's axis range
	assert.Equal(t, 2.0, m.devices[1].ScaleX)
	assert.Equal(t, 2.0, m.devices[1].ScaleY)
}

func Test_orientationRoundTrip(t *testing.T) {
	m := newScaleManager(720, 1600, Vector2{1080, 2400})

	points := []Vector2{
		{0, 0},
		{100, 200},
		{719, 1599},
		{360, 800},
	}

	for orientation := 0; orientation < 4; orientation++ {
		m.SetOrientation(orientation)
		for _, p := range points {
			got := m.ScreenToTouch(m.TouchToScreen(p))
			assert.InDelta(t, p.X, got.X, 1e-9, "orientation %d", orientation)
			assert.InDelta(t, p.Y, got.Y, 1e-9, "orientation %d", orientation)
		}
	}
}

func Test_orientationIdentity(t *testing.T) {
	m := newScaleManager(1080, 2400, Vector2{1080, 2400})
	m.SetOrientation(0)

	p := m.TouchToScreen(Vector2{100, 200})
	assert.Equal(t, Vector2{100, 200}, p)
}

func Test_orientationRotate90(t *testing.T) {
	m := newScaleManager(1080, 2400, Vector2{1080, 2400})
	m.SetOrientation(1)

	// screenSize is (2400, 1080); rotation 1 maps (x, y) to (y, h-x)
	p := m.TouchToScreen(Vector2{100, 200})
	assert.Equal(t, Vector2{200, 980}, p)
}

func Test_setOrientationWraps(t *testing.T) {
	m := newScaleManager(1080, 2400, Vector2{1080, 2400})

	m.SetOrientation(5)
	assert.Equal(t, 1, m.orientation)
	m.SetOrientation(-1)
	assert.Equal(t, 3, m.orientation)
}

func Test_screenToDevice(t *testing.T) {
	m := newScaleManager(720, 1600, Vector2{1080, 2400})

	// scale is (720/1080, 1600/2400); the orientation never applies
	m.SetOrientation(2)
	p := m.screenToDevice(Vector2{540, 1200})
	assert.InDelta(t, 360, p.X, 1e-9)
	assert.InDelta(t, 800, p.Y, 1e-9)
}
