// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"golang.org/x/xerrors"

	"github.com/KingForeverAmbition/Android-CPU-Draw/evdev"
	"github.com/KingForeverAmbition/Android-CPU-Draw/uinput"
)

const (
	// readBatch is the maximum number of raw kernel records consumed by
	// one blocking read.
	readBatch = 64

	// minDeliverInterval bounds observer/injection delivery to ~250 Hz.
	minDeliverInterval = 4 * time.Millisecond
)

// TouchCallback receives a copy of the full device registry at every
// rate-limited report boundary.
type TouchCallback func(devices []TouchDevice)

// GestureCallback receives one GestureData per recognized gesture.
type GestureCallback func(gesture GestureData)

// Manager owns the touch subsystem: the device registry, the per-device
// reader goroutines, the virtual output device and the gesture recognizer.
// Registry mutation from reader goroutines and from synthetic-input calls
// is serialized behind mu; callbacks run with mu held and must not
// re-enter the manager.
type Manager struct {
	service *dbusutil.Service

	mu      sync.Mutex
	devices []*TouchDevice
	output  *uinput.Device
	watcher *fsnotify.Watcher
	running atomic.Bool

	screenSize  Vector2 // landscape-normalized, X is the larger dimension
	touchScale  Vector2
	orientation int
	readOnly    bool

	touchCallback   TouchCallback
	gestureCallback GestureCallback
	recognizer      *gestureRecognizer
	gestureEnabled  bool

	uploadBuf   []evdev.InputEvent
	keysDown    bool
	multiCount  int
	lastDeliver int64

	now func() time.Time

	// nolint
	signals *struct {
		Gesture struct {
			name     string
			x, y     float64
			distance float64
			scale    float64
			fingers  int32
		}

		DeviceAdded struct {
			path string
		}

		DeviceRemoved struct {
			path string
		}
	}
}

func newManager(service *dbusutil.Service) *Manager {
	return &Manager{
		service:    service,
		recognizer: newGestureRecognizer(),
		uploadBuf:  make([]evdev.InputEvent, 0, 512),
		now:        time.Now,
	}
}

// init probes the multi-touch devices, creates the virtual output device
// (unless readOnly) and starts one reader goroutine per physical device.
func (m *Manager) init(screenSize Vector2, readOnly bool) error {
	m.destroy()

	m.readOnly = readOnly

	devices, err := evdev.ListMultiTouch(readOnly)
	if err != nil {
		return xerrors.Errorf("probe input devices: %w", err)
	}
	if len(devices) == 0 {
		return xerrors.New("no multi-touch device found")
	}

	for _, dev := range devices {
		m.devices = append(m.devices, &TouchDevice{
			dev:  dev,
			AbsX: dev.AbsX,
			AbsY: dev.AbsY,
		})
	}

	m.setupScale(screenSize)

	if !readOnly {
		out, err := uinput.Create(
			evdev.AbsInfo{Maximum: devices[0].AbsX.Maximum},
			evdev.AbsInfo{Maximum: devices[0].AbsY.Maximum})
		if err != nil {
			m.closeDevices()
			return xerrors.Errorf("create virtual device: %w", err)
		}
		m.output = out
		logger.Info("virtual touch device created:", out.Name)
	}

	m.running.Store(true)

	for i := range m.devices {
		go m.readLoop(i)
	}

	m.startHotplugMonitor()

	return nil
}

// destroy stops the reader goroutines cooperatively and releases every
// device. A reader blocked in a read is unblocked by the device close.
func (m *Manager) destroy() {
	if !m.running.Swap(false) {
		return
	}

	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevices()

	if m.output != nil {
		err := m.output.Destroy()
		if err != nil {
			logger.Warning("failed to destroy virtual device:", err)
		}
		m.output = nil
	}

	m.keysDown = false
	m.multiCount = 0
}

func (m *Manager) closeDevices() {
	for _, dev := range m.devices {
		_ = dev.dev.Close()
	}
	m.devices = nil
}

// IsInitialized reports whether the subsystem is running.
func (m *Manager) IsInitialized() bool {
	return m.running.Load()
}

// readLoop is the ingestion thread of one device. Short or invalid reads
// are retried; decoding and report processing run under the shared lock.
func (m *Manager) readLoop(devIndex int) {
	m.mu.Lock()
	dev := m.devices[devIndex]
	m.mu.Unlock()

	buf := make([]byte, readBatch*evdev.EventSize)
	currentSlot := 0

	for m.running.Load() {
		n, err := dev.dev.File.Read(buf)
		if err != nil || n <= 0 || n%evdev.EventSize != 0 {
			continue
		}

		events, err := evdev.UnmarshalEvents(buf[:n])
		if err != nil {
			continue
		}

		m.mu.Lock()
		for _, ev := range events {
			m.handleEvent(dev, devIndex, &currentSlot, ev)
		}
		m.mu.Unlock()
	}
}

// handleEvent applies one decoded kernel record to the device's contact
// table. Caller holds mu.
func (m *Manager) handleEvent(dev *TouchDevice, devIndex int, currentSlot *int, ev evdev.InputEvent) {
	switch ev.Type {
	case evdev.EvAbs:
		switch ev.Code {
		case evdev.AbsMtSlot:
			slot := int(ev.Value)
			if slot < 0 || slot >= maxFingers {
				// malformed stream, coerce instead of dropping
				slot = 0
			}
			*currentSlot = slot

		case evdev.AbsMtTrackingId:
			finger := &dev.Fingers[*currentSlot]
			if ev.Value == -1 {
				// lift: state retained so late events stay harmless
				finger.IsDown = false
			} else {
				finger.ID = contactID(devIndex, *currentSlot)
				finger.IsDown = true
				finger.StartPos = finger.Pos
				finger.Timestamp = m.now().UnixMilli()
			}

		case evdev.AbsMtPositionX:
			dev.Fingers[*currentSlot].Pos.X = float64(ev.Value) * dev.ScaleX

		case evdev.AbsMtPositionY:
			dev.Fingers[*currentSlot].Pos.Y = float64(ev.Value) * dev.ScaleY

		case evdev.AbsMtPressure:
			dev.Fingers[*currentSlot].Pressure = float64(ev.Value) / 255
		}

	case evdev.EvSyn:
		if ev.Code == evdev.SynReport {
			m.finishReport(dev)
		}
	}
}

// contactID builds a contact identity that cannot collide across devices
// or between concurrently-down slots.
func contactID(devIndex, slot int) int32 {
	return int32((devIndex*2+1)*maxFingers + slot)
}

// finishReport closes out one report boundary: refresh velocities, run
// the recognizer, then deliver rate-limited. Caller holds mu.
func (m *Manager) finishReport(dev *TouchDevice) {
	for i := range dev.Fingers {
		finger := &dev.Fingers[i]
		if finger.IsDown {
			finger.Velocity = finger.Pos.Sub(finger.StartPos)
		}
	}

	if m.gestureEnabled {
		m.recognizer.process(dev, m.emitGesture)
	}

	now := m.now().UnixMilli()
	if now-m.lastDeliver < minDeliverInterval.Milliseconds() {
		return
	}
	m.lastDeliver = now

	if m.touchCallback != nil {
		m.touchCallback(m.snapshotLocked())
	} else if !m.readOnly {
		m.upload()
	}
}

func (m *Manager) emitGesture(gesture GestureData) {
	if m.gestureCallback != nil {
		m.gestureCallback(gesture)
	}
	if m.service != nil {
		err := m.service.Emit(m, "Gesture", gesture.Type.String(),
			gesture.Position.X, gesture.Position.Y,
			gesture.Distance, gesture.Scale, gesture.FingerCount)
		if err != nil {
			logger.Warning("emit Gesture failed:", err)
		}
	}
}

func (m *Manager) snapshotLocked() []TouchDevice {
	devices := make([]TouchDevice, len(m.devices))
	for i, dev := range m.devices {
		devices[i] = *dev
	}
	return devices
}

// SetTouchCallback registers the registry observer. The callback runs
// with the subsystem lock held: it must not call back into the Manager.
func (m *Manager) SetTouchCallback(cb TouchCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touchCallback = cb
}

// SetGestureCallback registers the gesture observer. Same reentrancy
// restriction as SetTouchCallback.
func (m *Manager) SetGestureCallback(cb GestureCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gestureCallback = cb
}

// EnableGestureRecognition toggles the recognizer.
func (m *Manager) EnableGestureRecognition(enable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gestureEnabled = enable
}

// IsGestureRecognitionEnabled reports the recognizer toggle.
func (m *Manager) IsGestureRecognitionEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gestureEnabled
}

// SetGestureConfig replaces the recognizer thresholds at runtime.
func (m *Manager) SetGestureConfig(config GestureConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recognizer.config = config
}

// GetGestureConfig returns the active recognizer thresholds.
func (m *Manager) GetGestureConfig() GestureConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recognizer.config
}

// GetDevices returns a copy of the device registry.
func (m *Manager) GetDevices() []TouchDevice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// GetActiveTouches returns copies of all currently-down contacts.
func (m *Manager) GetActiveTouches() []TouchPoint {
	m.mu.Lock()
	defer m.mu.Unlock()

	var touches []TouchPoint
	for _, dev := range m.devices {
		for i := range dev.Fingers {
			if dev.Fingers[i].IsDown {
				touches = append(touches, dev.Fingers[i])
			}
		}
	}
	return touches
}

// GetTouchCount returns the number of currently-down contacts.
func (m *Manager) GetTouchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, dev := range m.devices {
		for i := range dev.Fingers {
			if dev.Fingers[i].IsDown {
				count++
			}
		}
	}
	return count
}

// IsTouching reports whether any contact is down.
func (m *Manager) IsTouching() bool {
	return m.GetTouchCount() > 0
}

// IsTouchingAt reports whether a contact is down within radius of the
// given screen-space position.
func (m *Manager) IsTouchingAt(pos Vector2, radius float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dev := range m.devices {
		for i := range dev.Fingers {
			finger := &dev.Fingers[i]
			if !finger.IsDown {
				continue
			}
			screenPos := m.touchToScreenLocked(finger.Pos)
			if screenPos.Sub(pos).Length() <= radius {
				return true
			}
		}
	}
	return false
}

// GetTouchByID looks up a down contact by identity, returning a copy.
func (m *Manager) GetTouchByID(id int32) (TouchPoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dev := range m.devices {
		for i := range dev.Fingers {
			finger := &dev.Fingers[i]
			if finger.IsDown && finger.ID == id {
				return *finger, true
			}
		}
	}
	return TouchPoint{}, false
}

// GetNearestTouch returns a copy of the down contact closest to the
// given screen-space position.
func (m *Manager) GetNearestTouch(pos Vector2) (TouchPoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	touchPos := m.screenToTouchLocked(pos)

	var nearest TouchPoint
	found := false
	minDist := 0.0
	for _, dev := range m.devices {
		for i := range dev.Fingers {
			finger := &dev.Fingers[i]
			if !finger.IsDown {
				continue
			}
			dist := finger.Pos.Sub(touchPos).Length()
			if !found || dist < minDist {
				nearest = *finger
				minDist = dist
				found = true
			}
		}
	}
	return nearest, found
}

// startHotplugMonitor watches /dev/input and reports event-node churn.
// The registry itself is fixed for the session; the signals let a
// supervisor decide to restart the module.
func (m *Manager) startHotplugMonitor() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warning("failed to create hotplug watcher:", err)
		return
	}
	err = watcher.Add("/dev/input")
	if err != nil {
		logger.Warning("failed to watch /dev/input:", err)
		_ = watcher.Close()
		return
	}
	m.watcher = watcher

	go func() {
		for event := range watcher.Events {
			if !strings.Contains(event.Name, "event") {
				continue
			}
			switch {
			case event.Op&fsnotify.Create != 0:
				logger.Info("input device added:", event.Name)
				m.emitDeviceSignal("DeviceAdded", event.Name)
			case event.Op&fsnotify.Remove != 0:
				logger.Info("input device removed:", event.Name)
				m.emitDeviceSignal("DeviceRemoved", event.Name)
			}
		}
	}()
}

func (m *Manager) emitDeviceSignal(name, path string) {
	if m.service == nil {
		return
	}
	err := m.service.Emit(m, name, path)
	if err != nil {
		logger.Warning("emit", name, "failed:", err)
	}
}
