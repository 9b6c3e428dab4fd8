// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"slices"
	"testing"
)

func TestParseShell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "bash -cu", want: []string{"bash", "-cu"}},
		{in: `bash -o pipefail -c`, want: []string{"bash", "-o", "pipefail", "-c"}},
		{in: `"/opt/my shell/sh" -c`, want: []string{"/opt/my shell/sh", "-c"}},
		{in: `bash "-c`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseShell(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseShell() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseShell() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNativeRuntime_ShellArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell string
		args  []string
		want  []string
	}{
		{shell: "/bin/sh", want: []string{"-cu"}},
		{shell: "/usr/bin/bash", args: []string{"-euc"}, want: []string{"-euc"}},
		{shell: `C:\Windows\System32\cmd.exe`, want: []string{"/C"}},
		{shell: "pwsh", want: []string{"-NoProfile", "-Command"}},
	}
	for _, tt := range tests {
		r := &NativeRuntime{ShellArgs: tt.args}
		if got := r.getShellArgs(tt.shell); !slices.Equal(got, tt.want) {
			t.Errorf("getShellArgs(%q) = %v, want %v", tt.shell, got, tt.want)
		}
	}
}

func TestNativeRuntime_AppendPositionalArgs(t *testing.T) {
	t.Parallel()

	r := NewNativeRuntime(nil)
	got := r.appendPositionalArgs("/bin/sh", []string{"-cu", "echo $1"}, []string{"a", "b"})
	if want := []string{"-cu", "echo $1", "recipe", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("posix = %v, want %v", got, want)
	}
	got = r.appendPositionalArgs("cmd.exe", []string{"/C", "echo"}, []string{"a"})
	if want := []string{"/C", "echo"}; !slices.Equal(got, want) {
		t.Errorf("cmd = %v, want %v", got, want)
	}
}
