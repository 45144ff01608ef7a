//go:build !unix

package procs

func isNoSuchProcess(error) bool   { return false }
func isPermissionErrno(error) bool { return false }
