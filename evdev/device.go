// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package evdev

import (
	"bytes"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

const devInputDir = "/dev/input"

// Device is an open multi-touch event device.
type Device struct {
	Path string
	Name string
	File *os.File

	ID   InputID
	AbsX AbsInfo
	AbsY AbsInfo

	grabbed bool
}

// Grab takes the device exclusively so no other client receives its events.
func (d *Device) Grab() error {
	err := ioctl(d.File.Fd(), eviocGrab(), uintptr(1))
	if err != nil {
		return err
	}
	d.grabbed = true
	return nil
}

// Release undoes a previous Grab.
func (d *Device) Release() error {
	err := ioctl(d.File.Fd(), eviocGrab(), uintptr(0))
	if err != nil {
		return err
	}
	d.grabbed = false
	return nil
}

// Close releases the device if grabbed and closes the file handle.
func (d *Device) Close() error {
	if d.grabbed {
		_ = d.Release()
	}
	return d.File.Close()
}

// GetAbsInfo queries the range of one absolute axis.
func GetAbsInfo(f *os.File, axis int) (AbsInfo, error) {
	var info AbsInfo
	err := ioctl(f.Fd(), eviocgAbs(axis), uintptr(unsafe.Pointer(&info)))
	if err != nil {
		return AbsInfo{}, err
	}
	return info, nil
}

func getInputID(f *os.File) (InputID, error) {
	var id InputID
	err := ioctl(f.Fd(), eviocgID(), uintptr(unsafe.Pointer(&id)))
	if err != nil {
		return InputID{}, err
	}
	return id, nil
}

func getDeviceName(f *os.File) string {
	var name [256]byte
	err := ioctl(f.Fd(), eviocgName(len(name)), uintptr(unsafe.Pointer(&name)))
	if err != nil {
		return ""
	}
	idx := bytes.IndexByte(name[:], 0)
	if idx < 0 {
		idx = len(name)
	}
	return string(name[:idx])
}

func getAbsBits(f *os.File) (*[AbsCnt / 8]byte, error) {
	bits := new([AbsCnt / 8]byte)
	err := ioctl(f.Fd(), eviocgBit(EvAbs, len(bits)), uintptr(unsafe.Pointer(bits)))
	if err != nil {
		return nil, err
	}
	return bits, nil
}

func isCharDevice(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// isMultiTouch reports whether the ABS bitmap describes a type B
// multi-touch device: a slot axis plus X/Y position axes.
func isMultiTouch(absBits *[AbsCnt / 8]byte) bool {
	return testBit(absBits[:], AbsMtSlot) &&
		testBit(absBits[:], AbsMtPositionX) &&
		testBit(absBits[:], AbsMtPositionY)
}

// ListMultiTouch scans /dev/input and opens every qualifying multi-touch
// device. Devices whose axis ranges cannot be read are skipped. With
// readOnly unset each device is opened read-write and grabbed exclusively.
func ListMultiTouch(readOnly bool) ([]*Device, error) {
	if _, err := os.Stat(devInputDir); err != nil {
		return nil, xerrors.Errorf("open %s: %w", devInputDir, err)
	}

	paths, err := filepath.Glob(filepath.Join(devInputDir, "event*"))
	if err != nil {
		return nil, err
	}

	flags := unix.O_RDWR
	if readOnly {
		flags = unix.O_RDONLY
	}

	var devices []*Device
	for _, path := range paths {
		if !isCharDevice(path) {
			continue
		}
		f, err := os.OpenFile(path, flags, 0)
		if err != nil {
			continue
		}

		absBits, err := getAbsBits(f)
		if err != nil || !isMultiTouch(absBits) {
			_ = f.Close()
			continue
		}

		absX, err := GetAbsInfo(f, AbsMtPositionX)
		if err != nil {
			_ = f.Close()
			continue
		}
		absY, err := GetAbsInfo(f, AbsMtPositionY)
		if err != nil {
			_ = f.Close()
			continue
		}

		dev := &Device{
			Path: path,
			Name: getDeviceName(f),
			File: f,
			AbsX: absX,
			AbsY: absY,
		}
		dev.ID, _ = getInputID(f)

		if !readOnly {
			if err := dev.Grab(); err != nil {
				_ = f.Close()
				continue
			}
		}

		devices = append(devices, dev)
	}

	return devices, nil
}
