package mem

import (
	"reflect"
	"unsafe"
)

// Memset fills size bytes starting at ptr with value. The region is filled by
// doubling copies, so a page takes 12 copy calls instead of 4096 stores.
func Memset(ptr unsafe.Pointer, value byte, size Size) {
	if size == 0 {
		return
	}

	var target []byte
	hdr := (*reflect.SliceHeader)(unsafe.Pointer(&target))
	hdr.Data = uintptr(ptr)
	hdr.Len = int(size)
	hdr.Cap = int(size)

	target[0] = value
	for filled := Size(1); filled < size; filled *= 2 {
		copy(target[filled:], target[:filled])
	}
}
