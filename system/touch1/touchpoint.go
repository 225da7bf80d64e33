// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"math"

	"github.com/KingForeverAmbition/Android-CPU-Draw/evdev"
)

// maxFingers is the per-device contact table size. Type B touchscreens
// track at most ten concurrent contacts in practice.
const maxFingers = 10

type Vector2 struct {
	X, Y float64
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// TouchPoint is one contact slot. The record is reused across contacts:
// IsDown alone decides whether the slot participates in gesture and query
// logic, identity and origin are reassigned on every up→down transition.
type TouchPoint struct {
	Pos       Vector2
	StartPos  Vector2
	Velocity  Vector2
	ID        int32
	IsDown    bool
	Pressure  float64
	Timestamp int64 // milliseconds
}

// Distance returns how far the contact moved since it went down.
func (p TouchPoint) Distance() float64 {
	return p.Pos.Sub(p.StartPos).Length()
}

// Direction returns the unit displacement vector since contact-down,
// or the zero vector for a stationary contact.
func (p TouchPoint) Direction() Vector2 {
	d := p.Pos.Sub(p.StartPos)
	l := d.Length()
	if l == 0 {
		return Vector2{}
	}
	return d.Scale(1 / l)
}

// TouchDevice pairs an open event device with its contact table and the
// per-axis factors converting raw axis units to the shared touch space.
type TouchDevice struct {
	dev *evdev.Device

	ScaleX float64
	ScaleY float64
	AbsX   evdev.AbsInfo
	AbsY   evdev.AbsInfo

	Fingers [maxFingers]TouchPoint
}

// Path returns the device node the registry entry was probed from.
func (d *TouchDevice) Path() string {
	if d.dev == nil {
		return ""
	}
	return d.dev.Path
}
