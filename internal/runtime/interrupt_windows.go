// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"os"

	"recipe-cli/pkg/types"
)

// interruptProcess kills the child; os.Interrupt cannot be sent to a process on Windows.
func interruptProcess(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}

// signalExitCode always reports false; Windows processes have no termination signal.
func signalExitCode(*os.ProcessState) (types.ExitCode, bool) {
	return 0, false
}
