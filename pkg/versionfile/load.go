package versionfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/magiconair/properties"
)

// ErrNotFound is returned when a version file does not exist.
var ErrNotFound = errors.New("version file not found")

// Load reads the version file at path.
// If the file does not exist, an error wrapping ErrNotFound is returned.
// Missing or malformed version components are set to 0, they do not cause
// an error.
func Load(path string) (*Fields, error) {
	props, err := loadProperties(path)
	if err != nil {
		return nil, err
	}

	return fieldsFromProperties(props), nil
}

// Parse reads the content of a version file from r.
func Parse(r io.Reader) (*Fields, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	props, err := parseProperties(content)
	if err != nil {
		return nil, err
	}

	return fieldsFromProperties(props), nil
}

func loadProperties(path string) (*properties.Properties, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("reading %s failed: %w", path, err)
	}

	props, err := parseProperties(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s failed: %w", path, err)
	}

	return props, nil
}

func parseProperties(content []byte) (*properties.Properties, error) {
	loader := properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}

	return loader.LoadBytes(content)
}

func fieldsFromProperties(props *properties.Properties) *Fields {
	appDate, _ := props.Get(KeyAppDate)

	return &Fields{
		Major:   intProperty(props, KeyMajor),
		Minor:   intProperty(props, KeyMinor),
		Release: intProperty(props, KeyRelease),
		Build:   intProperty(props, KeyBuild),
		Beta:    intProperty(props, KeyBeta),
		Alpha:   intProperty(props, KeyAlpha),
		AppDate: appDate,
	}
}

func intProperty(props *properties.Properties, key string) int {
	val, exist := props.Get(key)
	if !exist {
		DefaultDebugfFn("versionfile: %s is not set, using 0\n", key)
		return 0
	}

	i, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		DefaultDebugfFn("versionfile: %s value %q is not an integer, using 0\n", key, val)
		return 0
	}

	return int(i)
}
