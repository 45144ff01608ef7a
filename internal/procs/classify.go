package procs

import (
	"errors"
	"io/fs"

	"github.com/shirou/gopsutil/v4/process"
)

// IsVanished reports whether err means the process exited before or while
// it was being read.
func IsVanished(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, process.ErrorProcessNotRunning) ||
		errors.Is(err, fs.ErrNotExist) ||
		isNoSuchProcess(err)
}

// IsDenied reports whether err means the process exists but may not be
// inspected by this user.
func IsDenied(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, fs.ErrPermission) || isPermissionErrno(err)
}
