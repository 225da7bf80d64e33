// SPDX-FileCopyrightText: 2025 CPU-Draw Contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package uinput

import (
	"golang.org/x/sys/unix"
)

const (
	iocNone  = 0x0
	iocWrite = 0x1

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

// Request numbers, ref uinput.h
func uiSetEvBit() uintptr   { return ioc(iocWrite, 'U', 100, 4) }
func uiSetKeyBit() uintptr  { return ioc(iocWrite, 'U', 101, 4) }
func uiSetAbsBit() uintptr  { return ioc(iocWrite, 'U', 103, 4) }
func uiSetPropBit() uintptr { return ioc(iocWrite, 'U', 110, 4) }
func uiDevCreate() uintptr  { return ioc(iocNone, 'U', 1, 0) }
func uiDevDestroy() uintptr { return ioc(iocNone, 'U', 2, 0) }

func ioctl(fd uintptr, request uintptr, data uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, request, data)
	if errno != 0 {
		return errno
	}
	return nil
}
