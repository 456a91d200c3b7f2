package runner

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"voicegen/internal/manifest"
	"voicegen/internal/services"
)

// LockFileName is created inside the output directory for the duration of a run.
const LockFileName = manifest.LockFileName

func acquireLock(outDir string) (*flock.Flock, error) {
	lockPath := filepath.Join(outDir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "runner", "lock", fmt.Sprintf("acquire %s", lockPath), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "runner", "lock",
			fmt.Sprintf("another voicegen run is writing to %s", outDir), nil)
	}
	return lock, nil
}
