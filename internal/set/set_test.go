package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := From("b.jar", "a.jar", "b.jar")
	s.Add("c.jar", "a.jar")

	assert.True(t, s.Contains("a.jar"))
	assert.False(t, s.Contains("d.jar"))
	assert.Equal(t, []string{"a.jar", "b.jar", "c.jar"}, s.Sorted())
}

func TestEmptySet(t *testing.T) {
	assert.Empty(t, Set[int]{}.Sorted())
}
