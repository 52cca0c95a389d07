//go:build linux

package evjoy

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// _IOC encoding, see asm-generic/ioctl.h.
const (
	iocRead = 2

	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNrShift | size<<iocSizeShift
}

func ior(nr, size uintptr) uintptr {
	return ioc(iocRead, 'E', nr, size)
}

// Request numbers of the EVIOC* family from linux/input.h.
func eviocgversion() uintptr { return ior(0x01, 4) }

func eviocgid() uintptr { return ior(0x02, unsafe.Sizeof(deviceID{})) }

func eviocgname(size uintptr) uintptr { return ior(0x06, size) }

func eviocgbit(evType uint16, size uintptr) uintptr {
	return ior(0x20+uintptr(evType), size)
}

func eviocgabs(axis uint16) uintptr {
	return ior(0x40+uintptr(axis), unsafe.Sizeof(AbsParams{}))
}

func ioctl(fd uintptr, req uintptr, p unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(p))
	if errno != 0 {
		return errno
	}
	return nil
}
