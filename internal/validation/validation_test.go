package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinate(t *testing.T) {
	for _, valid := range []string{"logback-classic", "1.2.3", "org.slf4j", "[1.7,2.0)"} {
		assert.NoError(t, Coordinate(valid), valid)
	}

	for _, invalid := range []string{"", " 1.2.3", "1.2.3 ", "1.2 3", "1.2\x003", "org.slf4j:slf4j-api", "a/b", `a\b`} {
		assert.Error(t, Coordinate(invalid), invalid)
	}
}

func TestCoordinateErrorMessages(t *testing.T) {
	assert.EqualError(t, Coordinate(" 1.2.3"), "contains white spaces")
	assert.EqualError(t, Coordinate(""), "can not be empty")
	assert.EqualError(t, Coordinate("a:b"), `contains ':'`)
}
