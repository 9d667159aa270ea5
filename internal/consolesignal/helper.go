package consolesignal

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// dist holds helper binaries cross-compiled for each supported GOOS/GOARCH by
// the release packaging step (see cmd/consolesignalhelper). A checkout built
// straight from source has none embedded beyond dist/README.md, so
// runHelper reports ErrHelperUnavailable until a packaged release supplies
// them.
//
//go:embed dist
var dist embed.FS

// ErrHelperUnavailable is returned when no embedded helper binary matches the
// running GOOS/GOARCH.
var ErrHelperUnavailable = errors.New("consolesignal: no embedded helper binary for this platform")

func helperAssetName() string {
	name := fmt.Sprintf("dist/consolesignal-helper_%s_%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// runHelper extracts the embedded helper for the current platform to a
// uniquely-named temp file, runs it with (pid, signal) arguments, and
// reports success from its exit code.
func runHelper(pid int, sig Signal) (bool, error) {
	data, err := dist.ReadFile(helperAssetName())
	if err != nil {
		return false, ErrHelperUnavailable
	}

	name := "consolesignal-" + uuid.NewString()
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	tmp := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(tmp, data, 0o700); err != nil {
		return false, err
	}
	defer os.Remove(tmp)

	cmd := exec.Command(tmp, fmt.Sprintf("%d", pid), sig.String())
	if err := cmd.Run(); err != nil {
		return false, err
	}
	return true, nil
}
