// Package kernel holds the types shared by every part of the kernel.
package kernel

// Error is returned by kernel code that may run before the Go allocator is
// usable. Errors are declared once as package-level pointers and returned
// as is, so raising one never allocates.
type Error struct {
	// Module names the subsystem that raised the error.
	Module string

	// Message describes what went wrong.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
