//go:build windows

package autostart

import "golang.org/x/sys/windows"

// isElevated reports whether the process token is elevated. Errors count as
// not elevated.
func isElevated() bool {
	var token windows.Token
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()
	return token.IsElevated()
}
