// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KingForeverAmbition/Android-CPU-Draw/evdev"
)

// newTestManager fabricates a running manager over one 1080x2400 device
// with no output device attached. Both clocks come from the fake.
func newTestManager(clock *fakeClock) *Manager {
	m := newManager(nil)
	m.devices = []*TouchDevice{
		{
			AbsX: evdev.AbsInfo{Maximum: 1080},
			AbsY: evdev.AbsInfo{Maximum: 2400},
		},
	}
	m.setupScale(Vector2{1080, 2400})
	m.now = clock.now
	m.recognizer.now = clock.now
	m.running.Store(true)
	return m
}

func countEvents(events []evdev.InputEvent, typ, code uint16) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ && ev.Code == code {
			n++
		}
	}
	return n
}

func Test_buildUploadEventsEmpty(t *testing.T) {
	m := newTestManager(newFakeClock())

	events := m.buildUploadEvents()
	require.Len(t, events, 2)
	assert.Equal(t, uint16(evdev.EvSyn), events[0].Type)
	assert.Equal(t, uint16(evdev.SynMtReport), events[0].Code)
	assert.Equal(t, uint16(evdev.SynReport), events[1].Code)
}

func Test_buildUploadEventsKeyEdges(t *testing.T) {
	m := newTestManager(newFakeClock())
	press(m.devices[0], 0, Vector2{100, 200})

	events := m.buildUploadEvents()
	// key presses prefix the first non-empty state
	require.Len(t, events, 9)
	assert.Equal(t, uint16(evdev.EvKey), events[0].Type)
	assert.Equal(t, uint16(evdev.BtnTouch), events[0].Code)
	assert.Equal(t, int32(1), events[0].Value)
	assert.Equal(t, uint16(evdev.BtnToolFinger), events[1].Code)
	assert.Equal(t, int32(1), events[1].Value)

	// subsequent non-empty states carry no key events
	// one finger: X, Y, MT pair, tracking id, MT separator, report
	events = m.buildUploadEvents()
	require.Len(t, events, 7)
	assert.Equal(t, uint16(evdev.AbsX), events[0].Code)
	assert.Equal(t, uint16(evdev.AbsY), events[1].Code)
	assert.Equal(t, uint16(evdev.AbsMtPositionX), events[2].Code)
	assert.Equal(t, uint16(evdev.AbsMtPositionY), events[3].Code)
	assert.Equal(t, uint16(evdev.AbsMtTrackingId), events[4].Code)
	assert.Equal(t, uint16(evdev.SynMtReport), events[5].Code)
	assert.Equal(t, uint16(evdev.SynReport), events[6].Code)

	// the first empty state carries the key releases
	release(m.devices[0], 0)
	events = m.buildUploadEvents()
	require.Len(t, events, 4)
	assert.Equal(t, uint16(evdev.SynMtReport), events[0].Code)
	assert.Equal(t, uint16(evdev.BtnTouch), events[1].Code)
	assert.Equal(t, int32(0), events[1].Value)
	assert.Equal(t, uint16(evdev.BtnToolFinger), events[2].Code)
	assert.Equal(t, int32(0), events[2].Value)
	assert.Equal(t, uint16(evdev.SynReport), events[3].Code)

	// and only the first
	events = m.buildUploadEvents()
	require.Len(t, events, 2)
	assert.Equal(t, uint16(evdev.SynMtReport), events[0].Code)
	assert.Equal(t, uint16(evdev.SynReport), events[1].Code)
}

func Test_buildUploadEventsFingerCap(t *testing.T) {
	m := newTestManager(newFakeClock())
	m.devices = append(m.devices,
		&TouchDevice{AbsX: evdev.AbsInfo{Maximum: 1080}, AbsY: evdev.AbsInfo{Maximum: 2400}},
		&TouchDevice{AbsX: evdev.AbsInfo{Maximum: 1080}, AbsY: evdev.AbsInfo{Maximum: 2400}})

	for devIndex, dev := range m.devices {
		for slot := 0; slot < maxFingers; slot++ {
			dev.Fingers[slot].ID = contactID(devIndex, slot)
			dev.Fingers[slot].IsDown = true
		}
	}

	events := m.buildUploadEvents()
	assert.Equal(t, maxUploadFingers,
		countEvents(events, evdev.EvAbs, evdev.AbsMtTrackingId))
}

func Test_syntheticDownMoveUp(t *testing.T) {
	m := newTestManager(newFakeClock())

	m.Down(100, 200)
	finger := m.devices[0].Fingers[syntheticSlot]
	assert.True(t, finger.IsDown)
	assert.Equal(t, contactID(0, syntheticSlot), finger.ID)
	assert.Equal(t, Vector2{100, 200}, finger.Pos)
	assert.Equal(t, finger.Pos, finger.StartPos)

	m.Move(150, 250)
	finger = m.devices[0].Fingers[syntheticSlot]
	assert.Equal(t, Vector2{150, 250}, finger.Pos)
	assert.Equal(t, Vector2{100, 200}, finger.StartPos)

	m.Up()
	assert.False(t, m.devices[0].Fingers[syntheticSlot].IsDown)
	assert.Zero(t, m.GetTouchCount())
}

func Test_syntheticIgnoredWhenStopped(t *testing.T) {
	m := newTestManager(newFakeClock())
	m.running.Store(false)

	m.Down(100, 200)
	assert.False(t, m.devices[0].Fingers[syntheticSlot].IsDown)
}

func Test_multiTouch(t *testing.T) {
	m := newTestManager(newFakeClock())

	m.MultiTouch([]Vector2{{100, 100}, {200, 200}, {300, 300}})

	dev := m.devices[0]
	require.True(t, dev.Fingers[9].IsDown)
	require.True(t, dev.Fingers[8].IsDown)
	require.True(t, dev.Fingers[7].IsDown)
	assert.Equal(t, 3, m.GetTouchCount())

	ids := map[int32]bool{
		dev.Fingers[9].ID: true,
		dev.Fingers[8].ID: true,
		dev.Fingers[7].ID: true,
	}
	assert.Len(t, ids, 3)

	// shrinking the set lifts the tail contacts
	m.MultiTouch([]Vector2{{100, 100}})
	assert.Equal(t, 1, m.GetTouchCount())
	assert.True(t, dev.Fingers[9].IsDown)

	// an empty call lifts everything
	m.MultiTouch(nil)
	assert.Zero(t, m.GetTouchCount())
}

func Test_syntheticTapRecognized(t *testing.T) {
	clock := newFakeClock()
	m := newTestManager(clock)
	m.gestureEnabled = true

	var got []GestureData
	m.gestureCallback = func(g GestureData) {
		got = append(got, g)
	}

	m.Down(100, 200)
	clock.advance(100 * time.Millisecond)
	m.Up()

	require.Len(t, got, 1)
	assert.Equal(t, GestureTap, got[0].Type)
	assert.InDelta(t, 100, got[0].Position.X, 1e-9)
	assert.InDelta(t, 200, got[0].Position.Y, 1e-9)
}
