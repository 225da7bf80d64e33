// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package evdev provides bindings for the Linux input-event interface,
// covering the subset of the protocol used by multi-touch (type B)
// touchscreens.
package evdev

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Event types, ref input-event-codes.h
const (
	EvSyn = 0x00
	EvKey = 0x01
	EvAbs = 0x03
	EvFF  = 0x15

	EvMax = 0x1f
	EvCnt = EvMax + 1
)

// Synchronization codes
const (
	SynReport   = 0
	SynMtReport = 2
	SynDropped  = 3
)

// Key codes
const (
	BtnTouch      = 0x14a
	BtnToolFinger = 0x145

	KeyMax = 0x2ff
	KeyCnt = KeyMax + 1
)

// Absolute axis codes
const (
	AbsX = 0x00
	AbsY = 0x01

	AbsMtSlot        = 0x2f
	AbsMtTouchMajor  = 0x30
	AbsMtTouchMinor  = 0x31
	AbsMtWidthMajor  = 0x32
	AbsMtWidthMinor  = 0x33
	AbsMtOrientation = 0x34
	AbsMtPositionX   = 0x35
	AbsMtPositionY   = 0x36
	AbsMtTrackingId  = 0x39
	AbsMtPressure    = 0x3a

	AbsMax = 0x3f
	AbsCnt = AbsMax + 1
)

// Input properties
const (
	InputPropDirect = 0x01
	InputPropMax    = 0x1f
	InputPropCnt    = InputPropMax + 1
)

// InputID identifies an input device, ref struct input_id.
type InputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// AbsInfo describes the value range of one absolute axis,
// ref struct input_absinfo.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// InputEvent is the wire record delivered by the kernel,
// ref struct input_event.
type InputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// EventSize is the byte size of one InputEvent record.
const EventSize = int(unsafe.Sizeof(InputEvent{}))

// UnmarshalEvents decodes a little-endian buffer of raw kernel records.
// The buffer length must be a multiple of EventSize.
func UnmarshalEvents(buf []byte) ([]InputEvent, error) {
	events := make([]InputEvent, len(buf)/EventSize)
	err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func testBit(bits []byte, key int) bool {
	return bits[key/8]&(1<<uint(key%8)) != 0
}
