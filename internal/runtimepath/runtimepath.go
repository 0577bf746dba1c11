package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SocketEnv overrides the IPC socket path.
const SocketEnv = "DESKFOCUS_SOCKET"

// Dir returns the runtime directory used for the deskfocus IPC socket.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present, not on Windows)
// 3) <os temp dir>/deskfocus-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	if runtime.GOOS != "windows" {
		runUserDir := fmt.Sprintf("/run/user/%d", uid)
		if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
			return runUserDir, nil
		}
	}

	tmpDir := fallbackDir(uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

func fallbackDir(uid int) string {
	name := fmt.Sprintf("deskfocus-runtime-%d", uid)
	if uid < 0 {
		// Windows has no numeric uid.
		name = "deskfocus-runtime"
	}
	return filepath.Join(os.TempDir(), name)
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "deskfocus.sock"), nil
}
