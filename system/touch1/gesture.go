// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package touch1

import (
	"math"
	"time"
)

type GestureType int32

const (
	GestureNone GestureType = iota
	GestureTap
	GestureDoubleTap
	GestureLongPress
	GestureSwipe
	GesturePinch
	GestureRotate
)

func (t GestureType) String() string {
	switch t {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "double tap"
	case GestureLongPress:
		return "long press"
	case GestureSwipe:
		return "swipe"
	case GesturePinch:
		return "pinch"
	case GestureRotate:
		return "rotate"
	}
	return "none"
}

// GestureData describes one recognized gesture instance. It is built and
// handed to the callback, never stored.
type GestureData struct {
	Type        GestureType
	Position    Vector2
	Direction   Vector2
	Distance    float64
	Scale       float64
	Rotation    float64
	FingerCount int32
}

// GestureConfig holds the recognizer thresholds. Distances are in touch
// space units, durations in milliseconds, angles in radians.
//
// RotateMinAngle is declared for completeness; rotation detection is not
// implemented.
type GestureConfig struct {
	TapMaxDistance       float64 `json:"tap_max_distance"`
	TapMaxDuration       int     `json:"tap_max_duration"`
	DoubleTapMaxInterval int     `json:"double_tap_max_interval"`
	LongPressMinDuration int     `json:"long_press_min_duration"`
	SwipeMinDistance     float64 `json:"swipe_min_distance"`
	PinchMinDistance     float64 `json:"pinch_min_distance"`
	RotateMinAngle       float64 `json:"rotate_min_angle"`
}

func defaultGestureConfig() GestureConfig {
	return GestureConfig{
		TapMaxDistance:       20,
		TapMaxDuration:       300,
		DoubleTapMaxInterval: 400,
		LongPressMinDuration: 500,
		SwipeMinDistance:     50,
		PinchMinDistance:     20,
		RotateMinAngle:       0.1,
	}
}

// gestureRecognizer classifies the contact state of one device at every
// report boundary. A gesture window spans from the first slot going down
// to the last slot lifting; terminal classification (tap, double tap,
// swipe) happens on the closing edge, long press and pinch are checked
// while the window is open.
type gestureRecognizer struct {
	config GestureConfig
	now    func() time.Time

	lastTapTime     int64
	lastTapPos      Vector2
	tapCount        int
	windowStartTime int64
	windowStartPos  Vector2
	centroid        Vector2
	prevActive      int
	longPressFired  bool
}

func newGestureRecognizer() *gestureRecognizer {
	return &gestureRecognizer{
		config: defaultGestureConfig(),
		now:    time.Now,
	}
}

func (r *gestureRecognizer) process(dev *TouchDevice, emit func(GestureData)) {
	now := r.now().UnixMilli()

	active := 0
	var sum Vector2
	var first, second *TouchPoint
	for i := range dev.Fingers {
		f := &dev.Fingers[i]
		if !f.IsDown {
			continue
		}
		active++
		sum = sum.Add(f.Pos)
		if first == nil {
			first = f
		} else if second == nil {
			second = f
		}
	}

	if active > 0 && r.prevActive == 0 {
		r.windowStartTime = now
		r.windowStartPos = sum.Scale(1 / float64(active))
		r.centroid = r.windowStartPos
		r.longPressFired = false
	}

	if active == 0 {
		if r.prevActive > 0 {
			r.finishWindow(now, emit)
		}
		r.prevActive = 0
		return
	}

	r.centroid = sum.Scale(1 / float64(active))

	if !r.longPressFired {
		duration := now - r.windowStartTime
		distance := r.centroid.Sub(r.windowStartPos).Length()
		if duration > int64(r.config.LongPressMinDuration) &&
			distance < r.config.TapMaxDistance {
			r.longPressFired = true
			emit(GestureData{
				Type:        GestureLongPress,
				Position:    r.centroid,
				FingerCount: int32(active),
			})
		}
	}

	if active == 2 {
		currentDist := first.Pos.Sub(second.Pos).Length()
		startDist := first.StartPos.Sub(second.StartPos).Length()
		if startDist > 0 &&
			math.Abs(currentDist-startDist) > r.config.PinchMinDistance {
			emit(GestureData{
				Type:        GesturePinch,
				Position:    first.Pos.Add(second.Pos).Scale(0.5),
				Scale:       currentDist / startDist,
				FingerCount: 2,
			})
		}
	}

	r.prevActive = active
}

// finishWindow performs the terminal classification when the last contact
// lifts. The end position is the centroid tracked while the window was
// still active.
func (r *gestureRecognizer) finishWindow(now int64, emit func(GestureData)) {
	duration := now - r.windowStartTime
	endPos := r.centroid
	displacement := endPos.Sub(r.windowStartPos)
	distance := displacement.Length()

	if duration < int64(r.config.TapMaxDuration) &&
		distance < r.config.TapMaxDistance {
		if now-r.lastTapTime < int64(r.config.DoubleTapMaxInterval) &&
			endPos.Sub(r.lastTapPos).Length() < r.config.TapMaxDistance {
			r.tapCount = 0
			emit(GestureData{
				Type:        GestureDoubleTap,
				Position:    endPos,
				FingerCount: 1,
			})
		} else {
			r.tapCount++
			r.lastTapTime = now
			r.lastTapPos = endPos
			emit(GestureData{
				Type:        GestureTap,
				Position:    endPos,
				FingerCount: 1,
			})
		}
	} else if distance > r.config.SwipeMinDistance {
		emit(GestureData{
			Type:      GestureSwipe,
			Position:  r.windowStartPos,
			Direction: displacement.Scale(1 / distance),
			Distance:  distance,
		})
	}

	r.longPressFired = false
}
