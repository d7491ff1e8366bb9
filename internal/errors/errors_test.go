package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildError_Error_WithCause_IncludesCause(t *testing.T) {
	cause := stderrors.New("no such file")
	err := Wrap(cause, CategoryContent, SeverityFatal, "read content file")

	require.Contains(t, err.Error(), "content")
	require.Contains(t, err.Error(), "read content file")
	require.Contains(t, err.Error(), "no such file")
}

func TestBuildError_Unwrap_ReturnsCause(t *testing.T) {
	cause := stderrors.New("bad yaml")
	err := Wrap(cause, CategoryConfig, SeverityError, "parse config")

	require.True(t, stderrors.Is(err, cause))
}

func TestBuildError_WithContext_AccumulatesFields(t *testing.T) {
	err := New(CategoryTemplate, SeverityFatal, "template not found").
		WithContext("template", "blog.html").
		WithContext("category", "blog")

	require.Equal(t, "blog.html", err.Context["template"])
	require.Equal(t, "blog", err.Context["category"])
}

func TestIsCategory_MatchesAndRejects(t *testing.T) {
	err := New(CategoryRender, SeverityError, "render failed")

	require.True(t, IsCategory(err, CategoryRender))
	require.False(t, IsCategory(err, CategoryConfig))
	require.False(t, IsCategory(stderrors.New("plain"), CategoryRender))
}

func TestGetCategory_PlainError_ReturnsInternal(t *testing.T) {
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	require.Equal(t, CategoryFileSystem, GetCategory(New(CategoryFileSystem, SeverityError, "mkdir")))
}

func TestExitCodeFor_MapsCategories(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	require.Equal(t, 0, a.ExitCodeFor(nil))
	require.Equal(t, 2, a.ExitCodeFor(New(CategoryConfig, SeverityFatal, "bad config")))
	require.Equal(t, 3, a.ExitCodeFor(New(CategoryContent, SeverityFatal, "bad content")))
	require.Equal(t, 11, a.ExitCodeFor(New(CategoryRender, SeverityError, "render")))
	require.Equal(t, 1, a.ExitCodeFor(stderrors.New("plain")))
}
