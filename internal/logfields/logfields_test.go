package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_NilError_EmptyValue(t *testing.T) {
	attr := Error(nil)
	require.Equal(t, KeyError, attr.Key)
	require.Equal(t, "", attr.Value.String())
}

func TestError_NonNil_UsesMessage(t *testing.T) {
	attr := Error(errors.New("boom"))
	require.Equal(t, KeyError, attr.Key)
	require.Equal(t, "boom", attr.Value.String())
}

func TestHelpers_KeysMatchConstants(t *testing.T) {
	require.Equal(t, KeyCategory, Category("blog").Key)
	require.Equal(t, KeyTag, Tag("go").Key)
	require.Equal(t, KeyStage, Stage("render_pages").Key)
	require.Equal(t, KeyPath, Path("build/blog/index.html").Key)
	require.Equal(t, KeyCount, Count(3).Key)
}
