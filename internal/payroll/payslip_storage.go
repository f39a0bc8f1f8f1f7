package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PayslipStorage keeps rendered payslips. Save returns the location later
// handed to Load.
type PayslipStorage interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
	Load(ctx context.Context, location string) ([]byte, error)
}

type localStorage struct {
	dir string
}

// NewLocalStorage stores payslips as files under dir.
func NewLocalStorage(dir string) PayslipStorage {
	return &localStorage{dir: dir}
}

func (s *localStorage) Save(_ context.Context, name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *localStorage) Load(_ context.Context, location string) ([]byte, error) {
	path := filepath.Clean(location)
	rel, err := filepath.Rel(filepath.Clean(s.dir), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return nil, fmt.Errorf("payslip location %q is outside storage", location)
	}
	return os.ReadFile(path)
}
