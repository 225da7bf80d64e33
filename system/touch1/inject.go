// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"time"

	"github.com/KingForeverAmbition/Android-CPU-Draw/evdev"
)

const (
	// syntheticSlot is the contact slot reserved for single-finger
	// synthetic input on the first device; hardware rarely reaches it.
	syntheticSlot = 9

	// maxUploadFingers bounds the reusable upload buffer.
	maxUploadFingers = 20

	swipeStepInterval = 16 * time.Millisecond
	swipeSettleDelay  = 50 * time.Millisecond
)

// buildUploadEvents fills the reusable buffer with the wire image of the
// current finger state. Per down finger: ABS_X, ABS_Y, the MT position
// pair, the tracking id and a SYN_MT_REPORT separator. An empty state is
// a lone SYN_MT_REPORT, plus BTN_TOUCH/BTN_TOOL_FINGER release events on
// the first empty report after a non-empty one. The first non-empty state
// gets the matching key-press events prefixed so consumers see a clean
// button edge. A trailing SYN_REPORT always closes the batch.
// Caller holds mu.
func (m *Manager) buildUploadEvents() []evdev.InputEvent {
	events := m.uploadBuf[:0]
	fingerCount := 0

	for _, dev := range m.devices {
		for i := range dev.Fingers {
			finger := &dev.Fingers[i]
			if !finger.IsDown {
				continue
			}
			if fingerCount >= maxUploadFingers {
				break
			}
			fingerCount++

			x := int32(finger.Pos.X)
			y := int32(finger.Pos.Y)
			events = append(events,
				absEvent(evdev.AbsX, x),
				absEvent(evdev.AbsY, y),
				absEvent(evdev.AbsMtPositionX, x),
				absEvent(evdev.AbsMtPositionY, y),
				absEvent(evdev.AbsMtTrackingId, finger.ID),
				synEvent(evdev.SynMtReport),
			)
		}
	}

	if fingerCount == 0 {
		events = append(events, synEvent(evdev.SynMtReport))
		if m.keysDown {
			m.keysDown = false
			events = append(events,
				keyEvent(evdev.BtnTouch, 0),
				keyEvent(evdev.BtnToolFinger, 0))
		}
	} else if !m.keysDown {
		m.keysDown = true
		events = append([]evdev.InputEvent{
			keyEvent(evdev.BtnTouch, 1),
			keyEvent(evdev.BtnToolFinger, 1),
		}, events...)
	}

	events = append(events, synEvent(evdev.SynReport))

	m.uploadBuf = events
	return events
}

// upload re-emits the observed finger state onto the virtual device.
// Writes are fire-and-forget: injection is best-effort and the caller
// has no feedback channel. Caller holds mu.
func (m *Manager) upload() {
	events := m.buildUploadEvents()
	if m.output == nil {
		return
	}
	_ = m.output.WriteEvents(events)
}

func absEvent(code int, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EvAbs, Code: uint16(code), Value: value}
}

func keyEvent(code int, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EvKey, Code: uint16(code), Value: value}
}

func synEvent(code int) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EvSyn, Code: uint16(code)}
}

// Down starts a synthetic contact at the given screen position.
func (m *Manager) Down(x, y float64) {
	if !m.running.Load() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.devices) == 0 {
		return
	}
	finger := &m.devices[0].Fingers[syntheticSlot]
	finger.ID = contactID(0, syntheticSlot)
	finger.Pos = m.screenToDevice(Vector2{x, y})
	finger.StartPos = finger.Pos
	finger.IsDown = true
	finger.Timestamp = m.now().UnixMilli()
	m.upload()
	m.recognizeSynthetic()
}

// Move updates the synthetic contact position.
func (m *Manager) Move(x, y float64) {
	if !m.running.Load() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.devices) == 0 {
		return
	}
	m.devices[0].Fingers[syntheticSlot].Pos = m.screenToDevice(Vector2{x, y})
	m.upload()
	m.recognizeSynthetic()
}

// Up lifts the synthetic contact.
func (m *Manager) Up() {
	if !m.running.Load() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.devices) == 0 {
		return
	}
	m.devices[0].Fingers[syntheticSlot].IsDown = false
	m.upload()
	m.recognizeSynthetic()
}

// TouchAt performs a timed tap: down, hold, up.
func (m *Manager) TouchAt(pos Vector2, duration time.Duration) {
	m.Down(pos.X, pos.Y)
	time.Sleep(duration)
	m.Up()
}

// Swipe moves a synthetic contact from start to end with linear
// interpolation at ~60 steps per second, settling briefly before lifting.
func (m *Manager) Swipe(start, end Vector2, duration time.Duration) {
	steps := int(duration / swipeStepInterval)
	if steps < 1 {
		steps = 1
	}
	delta := end.Sub(start).Scale(1 / float64(steps))

	m.Down(start.X, start.Y)
	for i := 1; i < steps; i++ {
		pos := start.Add(delta.Scale(float64(i)))
		m.Move(pos.X, pos.Y)
		time.Sleep(swipeStepInterval)
	}
	m.Move(end.X, end.Y)
	time.Sleep(swipeSettleDelay)
	m.Up()
}

// MultiTouch presses one synthetic contact per position, filling the
// highest slots of the first device downward from the single-finger slot
// and uploading them as one state. An empty slice lifts every contact a
// previous call pressed.
func (m *Manager) MultiTouch(positions []Vector2) {
	if !m.running.Load() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.devices) == 0 {
		return
	}
	if len(positions) > maxFingers {
		positions = positions[:maxFingers]
	}

	dev := m.devices[0]
	for i, pos := range positions {
		slot := syntheticSlot - i
		finger := &dev.Fingers[slot]
		finger.Pos = m.screenToDevice(pos)
		if !finger.IsDown {
			finger.ID = contactID(0, slot)
			finger.StartPos = finger.Pos
			finger.IsDown = true
			finger.Timestamp = m.now().UnixMilli()
		}
	}
	for i := len(positions); i < m.multiCount; i++ {
		dev.Fingers[syntheticSlot-i].IsDown = false
	}
	m.multiCount = len(positions)

	m.upload()
	m.recognizeSynthetic()
}

// recognizeSynthetic feeds the recognizer after a synthetic-state change,
// mirroring what a hardware report boundary does. Caller holds mu.
func (m *Manager) recognizeSynthetic() {
	if m.gestureEnabled && len(m.devices) > 0 {
		m.recognizer.process(m.devices[0], m.emitGesture)
	}
}
