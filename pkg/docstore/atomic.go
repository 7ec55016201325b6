package docstore

import (
	"os"
	"path/filepath"
	"runtime"
)

// writeAtomic stages data in a temp file colocated with target, forces it
// to stable storage, then swaps it into place. The temp file is removed on
// every path, success or failure.
func (s *Store) writeAtomic(target string, data []byte) error {
	tmpPath, err := stageTemp(target, data)
	if err != nil {
		return &AccessError{Path: target, Op: "stage", Err: err}
	}
	defer os.Remove(tmpPath)

	if err := replaceFile(tmpPath, target); err != nil {
		// Degraded path: a non-atomic copy is better than losing the write,
		// but the degradation is recorded.
		s.logger.Warn("atomic replace of %s failed (%v), falling back to copy", target, err)
		staged, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return &AccessError{Path: target, Op: "write", Err: err}
		}
		if copyErr := os.WriteFile(target, staged, 0644); copyErr != nil {
			return &AccessError{Path: target, Op: "write", Err: copyErr}
		}
	}
	return nil
}

// stageTemp writes data to a new temp file next to target and fsyncs it,
// so the staged bytes survive a crash before the swap.
func stageTemp(target string, data []byte) (string, error) {
	dir := filepath.Dir(target)
	f, err := os.CreateTemp(dir, ".selwrite-*.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// replaceFile swaps source into target's place. POSIX rename replaces
// atomically; Windows cannot rename over an existing file, so the target
// is deleted first.
func replaceFile(source, target string) error {
	if runtime.GOOS == "windows" {
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return os.Rename(source, target)
}
