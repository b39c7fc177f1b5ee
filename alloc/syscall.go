package alloc

import (
	"fmt"
	"syscall"
	"unsafe"
)

// mmap creates a private anonymous read-write mapping. Failure is fatal:
// exhausting memory or address space is the terminal condition here, not an
// error to recover from.
func mmap(length int) unsafe.Pointer {
	addr, _, errno := syscall.Syscall6(
		syscall.SYS_MMAP,
		0,
		uintptr(length),
		uintptr(syscall.PROT_READ|syscall.PROT_WRITE),
		uintptr(syscall.MAP_PRIVATE|syscall.MAP_ANON),
		^uintptr(0), // fd: -1
		0,
	)
	if errno != 0 {
		panic(fmt.Sprintf("alloc: mmap of %d bytes: %v", length, errno))
	}
	return unsafe.Pointer(addr)
}

func munmap(p unsafe.Pointer, length int) {
	_, _, errno := syscall.Syscall(
		syscall.SYS_MUNMAP,
		uintptr(p),
		uintptr(length),
		0,
	)
	if errno != 0 {
		panic(fmt.Sprintf("alloc: munmap of %d bytes: %v", length, errno))
	}
}
