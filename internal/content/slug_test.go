package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify_PunctuationAndCase(t *testing.T) {
	s, err := Slugify("Hello, World!")
	require.NoError(t, err)
	require.Equal(t, "hello-world", s)
}

func TestSlugify_SimpleTitle(t *testing.T) {
	s, err := Slugify("Test Post")
	require.NoError(t, err)
	require.Equal(t, "test-post", s)
}
