// Package versionfile reads, resolves and updates the version properties
// file of a project.
//
// The file is a java.util.Properties file containing the version components
// of a project:
//
//	version.major=1
//	version.minor=2
//	version.release=3
//	version.build=4
//	version.beta=0
//	version.alpha=0
//	app.data=15/10/2026
package versionfile

import (
	"fmt"
	"strconv"
)

// Property keys that are evaluated in a version file.
const (
	KeyMajor   = "version.major"
	KeyMinor   = "version.minor"
	KeyRelease = "version.release"
	KeyBuild   = "version.build"
	KeyBeta    = "version.beta"
	KeyAlpha   = "version.alpha"
	KeyAppDate = "app.data"
)

// DateLayout is the format of the KeyAppDate value, dd/mm/yyyy.
const DateLayout = "02/01/2006"

// DefaultDebugfFn is called for every version component that can not be
// parsed as integer.
var DefaultDebugfFn = func(string, ...any) {}

// Fields are the version components of a version file.
// Components that are missing or not an integer in the file are 0.
type Fields struct {
	Major   int
	Minor   int
	Release int
	Build   int
	Beta    int
	Alpha   int

	// AppDate is the unparsed value of KeyAppDate, it's empty if the key
	// does not exist.
	AppDate string
}

// Version returns the version string of the fields, see Resolve.
func (f *Fields) Version() string {
	return Resolve(f)
}

// Base returns "<Major>.<Minor>.<Release>-<Build>".
func (f *Fields) Base() string {
	return fmt.Sprintf("%d.%d.%d-%d", f.Major, f.Minor, f.Release, f.Build)
}

// Resolve returns the version string of f.
// It has the format "<Major>.<Minor>.<Release>-<Build>" with an optional
// pre-release suffix. If Alpha is > 0, "-alpha<Alpha>" is appended and Beta
// is ignored. Otherwise "-beta<Beta>" is appended if Beta is > 0.
func Resolve(f *Fields) string {
	ver := f.Base()

	switch {
	case f.Alpha > 0:
		return ver + "-alpha" + strconv.Itoa(f.Alpha)
	case f.Beta > 0:
		return ver + "-beta" + strconv.Itoa(f.Beta)
	default:
		return ver
	}
}

// Components returns the integer components paired with their property
// keys in the order they appear in a version file.
func (f *Fields) Components() []Component {
	return []Component{
		{Key: KeyMajor, Value: f.Major},
		{Key: KeyMinor, Value: f.Minor},
		{Key: KeyRelease, Value: f.Release},
		{Key: KeyBuild, Value: f.Build},
		{Key: KeyBeta, Value: f.Beta},
		{Key: KeyAlpha, Value: f.Alpha},
	}
}

// Component is a single integer version component.
type Component struct {
	Key   string
	Value int
}
