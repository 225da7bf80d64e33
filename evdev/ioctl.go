// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package evdev

import (
	"golang.org/x/sys/unix"
)

// ioctl request encoding, ref ioctl.h
const (
	iocNone  = 0x0
	iocWrite = 0x1
	iocRead  = 0x2

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

func ioc(dir, t, nr, size int) uintptr {
	return uintptr((dir << iocDirShift) | (t << iocTypeShift) |
		(nr << iocNrShift) | (size << iocSizeShift))
}

func ior(t, nr, size int) uintptr {
	return ioc(iocRead, t, nr, size)
}

func iow(t, nr, size int) uintptr {
	return ioc(iocWrite, t, nr, size)
}

// Request numbers, ref input.h
func eviocgVersion() uintptr     { return ioc(iocRead, 'E', 0x01, 4) }
func eviocgID() uintptr          { return ioc(iocRead, 'E', 0x02, 8) }
func eviocgName(n int) uintptr   { return ioc(iocRead, 'E', 0x06, n) }
func eviocgProp(n int) uintptr   { return ioc(iocRead, 'E', 0x09, n) }
func eviocgBit(ev, n int) uintptr { return ioc(iocRead, 'E', 0x20+ev, n) }
func eviocgAbs(axis int) uintptr { return ior('E', 0x40+axis, 24) }
func eviocGrab() uintptr         { return iow('E', 0x90, 4) }

func ioctl(fd uintptr, request uintptr, data uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, request, data)
	if errno != 0 {
		return errno
	}
	return nil
}
