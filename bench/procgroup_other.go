//go:build !unix

package bench

import "os/exec"

// only the direct child is killed
func killGroupOnCancel(cmd *exec.Cmd) {}
