package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Extensions(t *testing.T) {
	s := NewStorage(t.TempDir(), 1024)

	assert.NoError(t, s.Validate("photo.png", 10))
	assert.NoError(t, s.Validate("PHOTO.JPG", 10))
	assert.NoError(t, s.Validate("a.webp", 10))
	assert.ErrorIs(t, s.Validate("photo.exe", 10), ErrUnsupportedMedia)
	assert.ErrorIs(t, s.Validate("photo", 10), ErrUnsupportedMedia)
	assert.ErrorIs(t, s.Validate("logo.svg", 10), ErrUnsupportedMedia)
}

func TestValidate_Size(t *testing.T) {
	s := NewStorage(t.TempDir(), 1024)

	assert.NoError(t, s.Validate("photo.png", 1024))
	assert.ErrorIs(t, s.Validate("photo.png", 1025), ErrTooLarge)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "mi_foto.png", SanitizeFilename("mi foto.png"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "evil.png", SanitizeFilename(`C:\tmp\evil.png`))
	assert.Equal(t, "fiestaHuari.jpg", SanitizeFilename("fiesta<Huari>.jpg"))
	assert.Equal(t, "hidden.png", SanitizeFilename(".hidden.png"))
}

func TestStoredName(t *testing.T) {
	at := time.Date(2026, 10, 16, 15, 4, 5, 0, time.UTC)

	name := StoredName("Mi Foto.PNG", at)
	assert.True(t, strings.HasPrefix(name, "20261016-150405-"), name)
	assert.True(t, strings.HasSuffix(name, "-Mi_Foto.PNG"), name)

	name = StoredName("..png", at)
	assert.True(t, strings.HasSuffix(name, "-imagen.png"), name)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, 1024)

	rel, err := s.Save("photo.png", bytes.NewReader([]byte("\x89PNG data")), time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, UploadsPrefix), rel)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG data", string(data))

	require.NoError(t, s.Remove(rel))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_TooLargeLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, 4)

	_, err := s.Save("photo.png", bytes.NewReader([]byte("123456")), time.Now())
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNormalizeManualPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"uploads/a.png", "uploads/a.png", true},
		{"/static/img/logo.jpg", "img/logo.jpg", true},
		{"img/sub/./b.png", "img/sub/b.png", true},
		{"uploads/../secret.txt", "", false},
		{"css/site.css", "", false},
		{"https://example.com/img/a.png", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeManualPath(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
