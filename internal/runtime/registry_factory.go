// SPDX-License-Identifier: MPL-2.0

package runtime

import "time"

// BuildRegistryOptions configures runtime registry construction.
type BuildRegistryOptions struct {
	// Shell is the argv used by the native runtime; empty selects the platform default.
	Shell []string
	// WaitDelay bounds how long an interrupted child may take to exit.
	WaitDelay time.Duration
}

// BuildRegistry creates a registry with the native and virtual runtimes.
func BuildRegistry(opts BuildRegistryOptions) *Registry {
	reg := NewRegistry()

	native := NewNativeRuntime(opts.Shell)
	native.WaitDelay = opts.WaitDelay
	reg.Register(RuntimeTypeNative, native)

	virtual := NewVirtualRuntime()
	virtual.WaitDelay = opts.WaitDelay
	reg.Register(RuntimeTypeVirtual, virtual)

	return reg
}
