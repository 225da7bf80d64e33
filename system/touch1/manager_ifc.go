// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"time"

	dbus "github.com/godbus/dbus/v5"
)

// TouchDown starts a synthetic contact at a screen position.
func (m *Manager) TouchDown(x, y float64) *dbus.Error {
	m.Down(x, y)
	return nil
}

// TouchMove moves the synthetic contact.
func (m *Manager) TouchMove(x, y float64) *dbus.Error {
	m.Move(x, y)
	return nil
}

// TouchUp lifts the synthetic contact.
func (m *Manager) TouchUp() *dbus.Error {
	m.Up()
	return nil
}

// Tap performs a timed tap. duration unit ms
func (m *Manager) Tap(x, y float64, duration int32) *dbus.Error {
	m.TouchAt(Vector2{x, y}, time.Duration(duration)*time.Millisecond)
	return nil
}

// SwipeTo performs a linear swipe. duration unit ms
func (m *Manager) SwipeTo(x1, y1, x2, y2 float64, duration int32) *dbus.Error {
	m.Swipe(Vector2{x1, y1}, Vector2{x2, y2},
		time.Duration(duration)*time.Millisecond)
	return nil
}

// SetScreenOrientation selects the orientation code {0,1,2,3}.
func (m *Manager) SetScreenOrientation(orientation int32) *dbus.Error {
	m.SetOrientation(int(orientation))
	return nil
}

// GetActiveTouchCount returns the number of currently-down contacts.
func (m *Manager) GetActiveTouchCount() (int32, *dbus.Error) {
	return int32(m.GetTouchCount()), nil
}

// HasActiveTouch reports whether any contact is down.
func (m *Manager) HasActiveTouch() (bool, *dbus.Error) {
	return m.IsTouching(), nil
}

// SetGestureEnabled toggles gesture recognition.
func (m *Manager) SetGestureEnabled(enable bool) *dbus.Error {
	m.EnableGestureRecognition(enable)
	return nil
}

// SetLongPressDuration sets the long-press threshold. duration unit ms
func (m *Manager) SetLongPressDuration(duration int32) *dbus.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recognizer.config.LongPressMinDuration = int(duration)
	return nil
}

// SetDoubleTapInterval sets the double-tap window. duration unit ms
func (m *Manager) SetDoubleTapInterval(duration int32) *dbus.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recognizer.config.DoubleTapMaxInterval = int(duration)
	return nil
}
