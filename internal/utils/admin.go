// Package utils carries small host helpers shared by the CLI.
package utils

import (
	"os"
	"os/user"
	"runtime"
)

// IsElevated reports whether the process runs with administrative or root
// privileges. Registry hives, other users' processes and some file
// attributes are only reachable when elevated.
func IsElevated() bool {
	if runtime.GOOS == "windows" {
		// Opening the raw disk requires administrator rights.
		f, err := os.Open(`\\.\PHYSICALDRIVE0`)
		if err != nil {
			return false
		}
		f.Close()
		return true
	}
	currentUser, err := user.Current()
	if err != nil {
		return false
	}
	return currentUser.Uid == "0"
}
