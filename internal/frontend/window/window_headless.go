//go:build headless

package window

import (
	"context"
	"errors"

	"tetrisos/internal/pc"
)

// ErrUnavailable is returned by Run in builds without a window system.
var ErrUnavailable = errors.New("window: frontend not available in headless builds")

// Run reports that no window can be opened.
func Run(context.Context, *pc.Machine, int) error {
	return ErrUnavailable
}
