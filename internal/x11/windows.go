package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// _NET_WM_STATE client message actions.
const (
	stateRemove = 0
	stateAdd    = 1
)

// FindWindowByTitle returns the first managed client whose title equals title.
func (c *Connection) FindWindowByTitle(title string) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to read client list: %w", err)
	}
	for _, windowID := range clients {
		if c.WindowTitle(windowID) == title {
			return windowID, nil
		}
	}
	return 0, fmt.Errorf("no window titled %q", title)
}

// WindowTitle returns the EWMH title, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore move requests on most window managers
	_ = c.unmaximizeWindow(windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// Present places a window on a monitor rectangle, then makes it full-screen
// and keeps it above other windows.
func (c *Connection) Present(windowID xproto.Window, x, y, width, height int) error {
	if err := c.MoveResizeWindow(windowID, x, y, width, height); err != nil {
		return err
	}
	for _, state := range []string{"_NET_WM_STATE_FULLSCREEN", "_NET_WM_STATE_ABOVE"} {
		if err := ewmh.WmStateReq(c.XUtil, windowID, stateAdd, state); err != nil {
			return fmt.Errorf("failed to set %s: %w", state, err)
		}
	}
	return nil
}

// Activate raises and focuses a window.
func (c *Connection) Activate(windowID xproto.Window) error {
	return ewmh.ActiveWindowReq(c.XUtil, windowID)
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, windowID, stateRemove, state)
		}
	}
	return nil
}
