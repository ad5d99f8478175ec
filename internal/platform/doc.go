// Package platform provides the low-level timing, memory-mapping and thread
// primitives that the scenarios are built on.
// Since tracebait is Linux-specific, `unix` functions are used preferentially
// over their `os` and `time` equivalents so that the syscalls issued stay
// visible to an interposition layer.
package platform
