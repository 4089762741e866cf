package ext

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// KernelSource locates a WGSL kernel on disk. The file is read at call
// time, so edits to the kernel take effect on the next invocation without
// restarting the process. A missing or unreadable file fails the call.
type KernelSource struct {
	Path string
}

// Load reads the kernel source from disk.
func (s KernelSource) Load() (string, error) {
	if s.Path == "" {
		return "", errors.New("ext: kernel source path is empty")
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("ext: load kernel source: %w", err)
	}

	source := string(data)
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("ext: kernel source %s is empty", s.Path)
	}
	return source, nil
}
