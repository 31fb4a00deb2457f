package checkpointer

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File saves and loads gob-encoded values to and from a single file
type File struct {
	path string
}

// NewFile returns a new File which saves to and loads from path
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the path of the file
func (f *File) Path() string {
	return f.path
}

// Exists returns whether the file exists
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Save gob-encodes v to the file, creating any missing parent
// directories. The file is first written to a temporary file in the
// same directory and then renamed, so that a previously saved file is
// never left partially overwritten.
func (f *File) Save(v interface{}) error {
	return save(f.path, v)
}

// Load gob-decodes the contents of the file into v
func (f *File) Load(v interface{}) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("load: could not open file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("load: could not decode %v: %w", f.path, err)
	}
	return nil
}

// save atomically writes the gob encoding of v to path
func save(path string, v interface{}) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save: could not create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("save: could not create file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err := gob.NewEncoder(tmp).Encode(v); err != nil {
		return errors.Join(
			fmt.Errorf("save: could not encode %T: %w", v, err),
			tmp.Close(),
		)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save: could not close file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save: could not rename file: %w", err)
	}
	return nil
}
