// Package manifest creates and parses the main section of JAR manifest
// files (META-INF/MANIFEST.MF).
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/maps"

	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

// Path is the location of the manifest inside a JAR archive.
const Path = "META-INF/MANIFEST.MF"

// Attribute names that are set by New.
const (
	AttrManifestVersion       = "Manifest-Version"
	AttrAppDate               = "App-Date"
	AttrVersionMajor          = "Version-Major"
	AttrVersionMinor          = "Version-Minor"
	AttrVersionRelease        = "Version-Release"
	AttrVersionBuild          = "Version-Build"
	AttrVersionBeta           = "Version-Beta"
	AttrVersionAlpha          = "Version-Alpha"
	AttrImplementationTitle   = "Implementation-Title"
	AttrImplementationVersion = "Implementation-Version"
	AttrBuildRevision         = "Build-Revision"
)

const (
	maxLineLen = 72
	maxNameLen = 70
	lineEnd    = "\r\n"
)

// Attribute is a name-value pair of the manifest main section.
type Attribute struct {
	Name  string
	Value string
}

// Manifest is the main section of a JAR manifest.
// Attributes are kept in insertion order.
type Manifest struct {
	attrs []*Attribute
}

// New returns a manifest describing a build of project with the version
// fields f.
func New(project string, f *versionfile.Fields) *Manifest {
	m := Manifest{}

	m.mustSet(AttrManifestVersion, "1.0")
	m.mustSet(AttrAppDate, f.AppDate)
	m.mustSet(AttrVersionMajor, strconv.Itoa(f.Major))
	m.mustSet(AttrVersionMinor, strconv.Itoa(f.Minor))
	m.mustSet(AttrVersionRelease, strconv.Itoa(f.Release))
	m.mustSet(AttrVersionBuild, strconv.Itoa(f.Build))
	m.mustSet(AttrVersionBeta, strconv.Itoa(f.Beta))
	m.mustSet(AttrVersionAlpha, strconv.Itoa(f.Alpha))
	m.mustSet(AttrImplementationTitle, project)
	m.mustSet(AttrImplementationVersion, f.Version())

	return &m
}

func (m *Manifest) mustSet(name, value string) {
	if err := m.Set(name, value); err != nil {
		panic(err)
	}
}

// Set adds an attribute.
// If an attribute with the same name (case-insensitive) exists, its value
// is replaced and its position is kept.
func (m *Manifest) Set(name, value string) error {
	if err := validateName(name); err != nil {
		return fmt.Errorf("invalid attribute name %q: %w", name, err)
	}

	if strings.ContainsAny(value, "\r\n\x00") {
		return fmt.Errorf("value of attribute %q contains a line break or NUL character", name)
	}

	if !utf8.ValidString(value) {
		return fmt.Errorf("value of attribute %q is not valid UTF-8", name)
	}

	for _, a := range m.attrs {
		if strings.EqualFold(a.Name, name) {
			a.Value = value
			return nil
		}
	}

	m.attrs = append(m.attrs, &Attribute{Name: name, Value: value})

	return nil
}

// SetAll adds all attributes of attrs, sorted by name.
func (m *Manifest) SetAll(attrs map[string]string) error {
	names := maps.Keys(attrs)
	slices.Sort(names)

	for _, name := range names {
		if err := m.Set(name, attrs[name]); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the value of the attribute name.
func (m *Manifest) Get(name string) (string, bool) {
	for _, a := range m.attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}

	return "", false
}

// Attributes returns a copy of all attributes in order.
func (m *Manifest) Attributes() []Attribute {
	res := make([]Attribute, 0, len(m.attrs))
	for _, a := range m.attrs {
		res = append(res, *a)
	}

	return res
}

func validateName(name string) error {
	if name == "" {
		return errors.New("can not be empty")
	}

	if len(name) > maxNameLen {
		return fmt.Errorf("exceeds %d bytes", maxNameLen)
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_':
			continue
		default:
			return fmt.Errorf("character %q is not allowed", r)
		}
	}

	return nil
}

// WriteTo writes m in the manifest file format to w.
// Lines are terminated by CRLF and wrapped at 72 bytes, continuation lines
// start with a single space. The section is terminated by an empty line.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	for _, a := range m.attrs {
		writeWrapped(&buf, a.Name+": "+a.Value)
	}
	buf.WriteString(lineEnd)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// Bytes returns the serialized manifest.
func (m *Manifest) Bytes() []byte {
	var buf bytes.Buffer

	// writing to a bytes.Buffer never fails
	_, _ = m.WriteTo(&buf)

	return buf.Bytes()
}

func writeWrapped(buf *bytes.Buffer, line string) {
	limit := maxLineLen

	for len(line) > limit {
		cut := limit
		// do not split multi-byte UTF-8 sequences
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}

		buf.WriteString(line[:cut])
		buf.WriteString(lineEnd)
		buf.WriteByte(' ')

		line = line[cut:]
		limit = maxLineLen - 1
	}

	buf.WriteString(line)
	buf.WriteString(lineEnd)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// Parse reads the main section of a manifest from r.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	var cur *Attribute
	var lineNr int

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNr++
		line := strings.TrimSuffix(sc.Text(), "\r")

		if line == "" {
			// end of the main section
			break
		}

		if strings.HasPrefix(line, " ") {
			if cur == nil {
				return nil, fmt.Errorf("line %d: continuation line without attribute", lineNr)
			}

			cur.Value += line[1:]
			continue
		}

		name, value, found := strings.Cut(line, ": ")
		if !found {
			return nil, fmt.Errorf("line %d: missing ': ' separator", lineNr)
		}

		if err := validateName(name); err != nil {
			return nil, fmt.Errorf("line %d: invalid attribute name %q: %w", lineNr, name, err)
		}

		cur = &Attribute{Name: name, Value: value}
		m.attrs = append(m.attrs, cur)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return &m, nil
}
