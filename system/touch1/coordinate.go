// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

// Two independent linear mappings live here. The touch scale converts
// application coordinates (screen pixels of the longer logical dimension)
// to device axis units and is fixed at initialization. The orientation
// transform maps touch-space coordinates into the rotated space the
// renderer uses, with an exact inverse for every orientation code.

// setupScale derives both mappings from the probed axis ranges. The
// screen size is stored landscape-normalized (larger dimension as X) so
// the orientation transform is stable across rotations; the scale is
// computed against the portrait-normalized size.
func (m *Manager) setupScale(screenSize Vector2) {
	if screenSize.X > screenSize.Y {
		m.screenSize = screenSize
	} else {
		m.screenSize = Vector2{screenSize.Y, screenSize.X}
	}

	touchWidth := float64(m.devices[0].AbsX.Maximum)
	touchHeight := float64(m.devices[0].AbsY.Maximum)

	for _, dev := range m.devices {
		dev.ScaleX = touchWidth / float64(dev.AbsX.Maximum)
		dev.ScaleY = touchHeight / float64(dev.AbsY.Maximum)
	}

	portrait := Vector2{m.screenSize.Y, m.screenSize.X}
	m.touchScale = Vector2{touchWidth / portrait.X, touchHeight / portrait.Y}
}

// TouchToScreen maps a touch-space coordinate into the renderer's
// orientation-rotated screen space.
func (m *Manager) TouchToScreen(p Vector2) Vector2 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touchToScreenLocked(p)
}

func (m *Manager) touchToScreenLocked(p Vector2) Vector2 {
	xt := p.X / m.touchScale.X
	yt := p.Y / m.touchScale.Y

	switch m.orientation {
	case 1:
		return Vector2{yt, m.screenSize.Y - xt}
	case 2:
		return Vector2{m.screenSize.X - xt, m.screenSize.Y - yt}
	case 3:
		return Vector2{m.screenSize.X - yt, xt}
	default:
		return Vector2{xt, yt}
	}
}

// ScreenToTouch is the exact inverse of TouchToScreen.
func (m *Manager) ScreenToTouch(p Vector2) Vector2 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screenToTouchLocked(p)
}

func (m *Manager) screenToTouchLocked(p Vector2) Vector2 {
	var xt, yt float64
	switch m.orientation {
	case 1:
		xt = m.screenSize.Y - p.Y
		yt = p.X
	case 2:
		xt = m.screenSize.X - p.X
		yt = m.screenSize.Y - p.Y
	case 3:
		xt = p.Y
		yt = m.screenSize.X - p.X
	default:
		xt = p.X
		yt = p.Y
	}
	return Vector2{xt * m.touchScale.X, yt * m.touchScale.Y}
}

// screenToDevice converts synthetic-input coordinates to device units.
// Synthetic callers address the panel directly, so only the scale applies,
// never the orientation transform.
func (m *Manager) screenToDevice(p Vector2) Vector2 {
	return Vector2{p.X * m.touchScale.X, p.Y * m.touchScale.Y}
}

// SetOrientation selects one of the four 90° screen rotations.
func (m *Manager) SetOrientation(orientation int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orientation = ((orientation % 4) + 4) % 4
}

// GetScale returns the device-units-per-screen-pixel factors.
func (m *Manager) GetScale() Vector2 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touchScale
}
