package versionfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/magiconair/properties"
)

// BumpAndStamp increments the build component of the version file at path
// by 1 and sets its KeyAppDate property to now, formatted as DateLayout.
// All other properties of the file are preserved and the file is
// rewritten.
// The updated fields are returned.
//
// Concurrent calls for the same file are not synchronized, the last writer
// wins.
func BumpAndStamp(path string, now time.Time) (*Fields, error) {
	props, err := loadProperties(path)
	if err != nil {
		return nil, err
	}

	fields := fieldsFromProperties(props)
	fields.Build++
	fields.AppDate = now.Format(DateLayout)

	if err := props.SetValue(KeyBuild, strconv.Itoa(fields.Build)); err != nil {
		return nil, fmt.Errorf("setting %s failed: %w", KeyBuild, err)
	}

	if err := props.SetValue(KeyAppDate, fields.AppDate); err != nil {
		return nil, fmt.Errorf("setting %s failed: %w", KeyAppDate, err)
	}

	if err := writeProperties(path, props); err != nil {
		return nil, err
	}

	return fields, nil
}

// Write creates or overwrites the version file at path with the values of
// f. Missing parent directories are created.
func Write(path string, f *Fields) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory of %s failed: %w", path, err)
	}

	props := properties.NewProperties()
	props.DisableExpansion = true

	for _, c := range f.Components() {
		props.MustSet(c.Key, strconv.Itoa(c.Value))
	}
	props.MustSet(KeyAppDate, f.AppDate)

	return writeProperties(path, props)
}

// writeProperties replaces the file at path with the content of props.
// The data is written to a temporary file in the same directory that is
// then renamed to path, readers never see a partially written file.
func writeProperties(path string, props *properties.Properties) error {
	var buf bytes.Buffer

	if _, err := props.WriteComment(&buf, "# ", properties.ISO_8859_1); err != nil {
		return fmt.Errorf("serializing properties failed: %w", err)
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file failed: %w", err)
	}

	// nolint: errcheck
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s failed: %w", tmp.Name(), err)
	}

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s failed: %w", tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s failed: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s failed: %w", path, err)
	}

	return nil
}
