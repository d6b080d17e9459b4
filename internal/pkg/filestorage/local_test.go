package filestorage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/uploads/", zerolog.Nop())
	require.NoError(t, err)

	url, err := ls.Save(context.Background(), "CV.PDF", strings.NewReader("%PDF-1.4"), "resumes/7")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/resumes/7/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	path := ls.GetFullPath(url)
	require.NotEmpty(t, path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, ls.DeleteFile(url))
}

func TestSaveWithoutBaseURL(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "", zerolog.Nop())
	require.NoError(t, err)

	url, err := ls.Save(context.Background(), "notes.txt", strings.NewReader("hi"), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "uploads/"))
	assert.FileExists(t, ls.GetFullPath(url))
}

func TestSubPathCannotEscapeBase(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "", zerolog.Nop())
	require.NoError(t, err)

	url, err := ls.Save(context.Background(), "x.txt", strings.NewReader("x"), "../../etc")
	require.NoError(t, err)

	path := ls.GetFullPath(url)
	assert.True(t, strings.HasPrefix(path, filepath.Clean(dir)+string(filepath.Separator)))
}

func TestGetFullPathRejectsForeignURLs(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://cdn.example.com", zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, ls.GetFullPath("http://elsewhere.example.com/a.pdf"))
	assert.Error(t, ls.DeleteFile("http://elsewhere.example.com/a.pdf"))
}

func TestAllowedExtension(t *testing.T) {
	assert.True(t, AllowedExtension("resume.PDF", ResumeExtensions))
	assert.True(t, AllowedExtension("resume.docx", ResumeExtensions))
	assert.False(t, AllowedExtension("resume.exe", ResumeExtensions))
	assert.False(t, AllowedExtension("resume", ResumeExtensions))
}
