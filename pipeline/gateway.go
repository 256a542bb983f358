package pipeline

import (
	"io/fs"
	"os"
)

// Gateway abstracts the filesystem primitives the pipeline needs: raw
// reads for verify, fragment writes, directory checks and creation. Tests
// substitute a fake; production uses the OS implementation.
type Gateway interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Stat(path string) (fs.FileInfo, error)
	Remove(path string) error
}

// OSGateway is the production Gateway backed by the os package.
type OSGateway struct{}

func (OSGateway) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSGateway) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSGateway) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

func (OSGateway) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (OSGateway) Remove(path string) error { return os.Remove(path) }
