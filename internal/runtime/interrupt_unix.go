// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"os"
	"syscall"

	"recipe-cli/pkg/types"
)

// interruptProcess forwards SIGINT so the child can clean up before exiting.
func interruptProcess(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Signal(os.Interrupt)
}

// signalExitCode reports 128+signal for a child terminated by a signal, the
// status a POSIX shell would give it.
func signalExitCode(state *os.ProcessState) (types.ExitCode, bool) {
	if state == nil {
		return 0, false
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return types.ExitCode(128 + int(ws.Signal())), true
}
