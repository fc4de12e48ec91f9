package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/hoaregistry/internal/model"
)

// dirPerm is the permission used when creating the export directory.
const dirPerm = 0o750

// WriteFile exports the table to path in the given format.
// Any failure is returned as *Error and leaves no file at path.
func WriteFile(path, format string, table *model.Table) error {
	return writeAtomic(path, func(out io.Writer) error {
		w, err := NewWriter(format, out)
		if err != nil {
			return err
		}
		return w.Write(table)
	})
}

// WriteSummaryFile writes the Markdown summary of run to path.
// Any failure is returned as *Error and leaves no file at path.
func WriteSummaryFile(path string, run *model.Run) error {
	return writeAtomic(path, func(out io.Writer) error {
		return NewSummaryWriter(out).Write(run)
	})
}

// writeAtomic runs write against a temporary file next to path and renames
// it into place once everything was written and closed.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return &Error{Path: path, Cause: fmt.Errorf("empty output path")}
	}
	defer func() {
		if err != nil {
			err = &Error{Path: path, Cause: err}
		}
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
