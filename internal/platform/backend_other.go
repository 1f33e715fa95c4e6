//go:build !linux

package platform

// New reports that window placement is only implemented for X11.
func New() (Backend, error) {
	return NullBackend{}, ErrUnsupported
}
