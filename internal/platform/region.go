package platform

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrRegionMoved is returned when the kernel places a mapping somewhere other
// than the requested address.
var ErrRegionMoved = errors.New("region not mapped at requested address")

// Region is an anonymous read-write memory mapping at a caller-chosen
// virtual address, shared by every thread in the process.
type Region struct {
	ptr  unsafe.Pointer
	size uintptr
}

// MapRegionAt maps size bytes of anonymous memory at addr. The address is
// passed to the kernel as a placement hint and the result is verified
// against it; a mapping the kernel relocated is unmapped again and reported
// as ErrRegionMoved. The caller owns the region until Close.
func MapRegionAt(addr uintptr, size uintptr) (*Region, error) {
	if addr == 0 {
		return nil, errors.New("map region: zero address")
	}

	if pageSize := uintptr(os.Getpagesize()); addr%pageSize != 0 {
		return nil, fmt.Errorf("map region: address %#x is not page-aligned", addr)
	}

	if size == 0 {
		return nil, errors.New("map region: zero size")
	}

	ptr, err := unix.MmapPtr(
		-1,
		0,
		unsafe.Pointer(addr),
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap %#x: %w", addr, err)
	}

	if uintptr(ptr) != addr {
		// The kernel ignored the hint; unmap the stray mapping.
		_ = unix.MunmapPtr(ptr, size)

		return nil, fmt.Errorf("mmap %#x returned %#x: %w", addr, uintptr(ptr), ErrRegionMoved)
	}

	return &Region{ptr: ptr, size: size}, nil
}

// Addr returns the virtual address the region is mapped at.
func (r *Region) Addr() uintptr {
	return uintptr(r.ptr)
}

// Size returns the size of the region in bytes.
func (r *Region) Size() uintptr {
	return r.size
}

// Slots exposes the region as word-sized slots. Writers touching disjoint
// slots need no synchronisation.
func (r *Region) Slots() []uint64 {
	return unsafe.Slice((*uint64)(r.ptr), r.size/8)
}

// Close unmaps the region. Slices returned by Slots must not be used
// afterwards.
func (r *Region) Close() error {
	if err := unix.MunmapPtr(r.ptr, r.size); err != nil {
		return fmt.Errorf("munmap %#x: %w", r.Addr(), err)
	}

	return nil
}
