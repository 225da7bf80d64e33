// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uinput creates kernel-visible virtual input devices through
// /dev/uinput and writes input events to them in the kernel wire format.
package uinput

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"

	"github.com/lunixbochs/struc"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"

	"github.com/KingForeverAmbition/Android-CPU-Draw/evdev"
)

const (
	uinputPath      = "/dev/uinput"
	MaxNameSize     = 80
	trackingIDLimit = 65535
)

// UserDev is the device declaration written to /dev/uinput before
// UI_DEV_CREATE, ref struct uinput_user_dev.
type UserDev struct {
	Name       [MaxNameSize]byte
	ID         evdev.InputID
	EffectsMax uint32
	AbsMax     [evdev.AbsCnt]int32
	AbsMin     [evdev.AbsCnt]int32
	AbsFuzz    [evdev.AbsCnt]int32
	AbsFlat    [evdev.AbsCnt]int32
}

// Device is a created virtual input device.
type Device struct {
	Name string
	file *os.File
}

// Create declares and registers a virtual multi-touch device whose X/Y
// ranges mirror the given physical axis ranges. The device identity is
// randomized so downstream consumers cannot tell it from real hardware.
func Create(absX, absY evdev.AbsInfo) (*Device, error) {
	f, err := os.OpenFile(uinputPath, unix.O_WRONLY|unix.O_NONBLOCK, 0660)
	if err != nil {
		return nil, xerrors.Errorf("open %s: %w", uinputPath, err)
	}

	setups := []struct {
		request uintptr
		value   int
	}{
		{uiSetPropBit(), evdev.InputPropDirect},
		{uiSetEvBit(), evdev.EvSyn},
		{uiSetEvBit(), evdev.EvKey},
		{uiSetEvBit(), evdev.EvAbs},
		{uiSetKeyBit(), evdev.BtnTouch},
		{uiSetKeyBit(), evdev.BtnToolFinger},
		{uiSetAbsBit(), evdev.AbsX},
		{uiSetAbsBit(), evdev.AbsY},
		{uiSetAbsBit(), evdev.AbsMtPositionX},
		{uiSetAbsBit(), evdev.AbsMtPositionY},
		{uiSetAbsBit(), evdev.AbsMtTrackingId},
	}
	for _, s := range setups {
		if err := ioctl(f.Fd(), s.request, uintptr(s.value)); err != nil {
			_ = f.Close()
			return nil, xerrors.Errorf("uinput setup bit %#x: %w", s.value, err)
		}
	}

	name := randName(10)
	userDev := UserDev{
		Name: toDevName(name),
		ID: evdev.InputID{
			BusType: 0,
			Vendor:  uint16(1 + rand.Intn(100)),
			Product: uint16(1 + rand.Intn(100)),
			Version: uint16(1 + rand.Intn(100)),
		},
	}
	userDev.AbsMin[evdev.AbsX] = absX.Minimum
	userDev.AbsMax[evdev.AbsX] = absX.Maximum
	userDev.AbsMin[evdev.AbsY] = absY.Minimum
	userDev.AbsMax[evdev.AbsY] = absY.Maximum
	userDev.AbsMin[evdev.AbsMtPositionX] = absX.Minimum
	userDev.AbsMax[evdev.AbsMtPositionX] = absX.Maximum
	userDev.AbsMin[evdev.AbsMtPositionY] = absY.Minimum
	userDev.AbsMax[evdev.AbsMtPositionY] = absY.Maximum
	userDev.AbsMin[evdev.AbsMtTrackingId] = 0
	userDev.AbsMax[evdev.AbsMtTrackingId] = trackingIDLimit

	if _, err := f.Write(packUserDev(userDev)); err != nil {
		_ = f.Close()
		return nil, xerrors.Errorf("write uinput_user_dev: %w", err)
	}

	if err := ioctl(f.Fd(), uiDevCreate(), 0); err != nil {
		_ = f.Close()
		return nil, xerrors.Errorf("UI_DEV_CREATE: %w", err)
	}

	return &Device{Name: name, file: f}, nil
}

// WriteEvents serializes the events little-endian and writes them as one
// blob. A short or failed write is reported but never retried.
func (d *Device) WriteEvents(events []evdev.InputEvent) error {
	var buf bytes.Buffer
	for i := range events {
		err := struc.PackWithOptions(&buf, &events[i],
			&struc.Options{Order: binary.LittleEndian})
		if err != nil {
			return err
		}
	}
	_, err := d.file.Write(buf.Bytes())
	return err
}

// Destroy unregisters the virtual device and closes it.
func (d *Device) Destroy() error {
	err := ioctl(d.file.Fd(), uiDevDestroy(), 0)
	closeErr := d.file.Close()
	if err != nil {
		return err
	}
	return closeErr
}

func packUserDev(dev UserDev) []byte {
	var buf bytes.Buffer
	_ = struc.PackWithOptions(&buf, &dev, &struc.Options{Order: binary.LittleEndian})
	return buf.Bytes()
}

func toDevName(name string) [MaxNameSize]byte {
	var fixed [MaxNameSize]byte
	copy(fixed[:], name)
	return fixed
}

const nameLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randName(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = nameLetters[rand.Intn(len(nameLetters))]
	}
	return string(b)
}
