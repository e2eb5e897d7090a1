//go:build !windows

package autostart

import "os"

func isElevated() bool {
	return os.Geteuid() == 0
}
