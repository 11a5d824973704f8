package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electioncart/electioncart/internal/models"
)

// makeFileHeader builds a real multipart.FileHeader by encoding and
// re-parsing a form, the same way gin hands uploads to the handlers.
func makeFileHeader(t *testing.T, filename string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestValidateFile(t *testing.T) {
	imageExts := []string{".jpg", ".jpeg", ".png", ".gif"}

	assert.NoError(t, ValidateFile(makeFileHeader(t, "photo.jpg", 128), 5, imageExts))
	assert.NoError(t, ValidateFile(makeFileHeader(t, "PHOTO.PNG", 128), 5, imageExts))

	err := ValidateFile(makeFileHeader(t, "malware.exe", 128), 5, imageExts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")

	big := makeFileHeader(t, "huge.jpg", 2*1024*1024)
	err = ValidateFile(big, 1, imageExts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot exceed 1MB")
}

func TestSaveImage(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	path, err := s.SaveImage(makeFileHeader(t, "photo.jpg", 64), "resources/photos")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, filepath.Join("resources", "photos")))
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	data, err := os.ReadFile(filepath.Join(root, path))
	require.NoError(t, err)
	assert.Len(t, data, 64)
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	path, err := s.SaveImage(makeFileHeader(t, "photo.jpg", 64), "resources/photos")
	require.NoError(t, err)

	require.NoError(t, s.Remove(path))
	_, err = os.Stat(filepath.Join(root, path))
	assert.True(t, os.IsNotExist(err))

	// Removing again is a no-op.
	assert.NoError(t, s.Remove(path))
}

func TestSaveUploadPerFieldDefinition(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	doc := &models.ResourceFieldDefinition{FieldType: models.FieldDocument, MaxFileSizeMB: 1}
	path, err := s.SaveUpload(makeFileHeader(t, "manifesto.pdf", 64), doc, "resources/docs")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	_, err = s.SaveUpload(makeFileHeader(t, "photo.jpg", 64), doc, "resources/docs")
	assert.Error(t, err, "image extension rejected for a document field")

	custom := &models.ResourceFieldDefinition{FieldType: models.FieldImage, MaxFileSizeMB: 1, AllowedExtensions: ".webp, png"}
	_, err = s.SaveUpload(makeFileHeader(t, "art.webp", 64), custom, "resources/art")
	assert.NoError(t, err)
	_, err = s.SaveUpload(makeFileHeader(t, "art.gif", 64), custom, "resources/art")
	assert.Error(t, err)
}
