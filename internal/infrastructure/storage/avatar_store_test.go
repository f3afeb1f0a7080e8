package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/infrastructure/storage"
)

func newStore(t *testing.T) (*storage.AvatarStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := storage.NewAvatarStore(fs, "/api/avatars/")
	require.NoError(t, err)
	return s, fs
}

func TestAvatarStore_SaveOpenDelete(t *testing.T) {
	s, fs := newStore(t)
	ctx := context.Background()

	url, err := s.Save(ctx, "user-1.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/api/avatars/user-1.png", url)
	assert.Equal(t, "user-1.png", s.NameFromURL(url))

	exists, err := afero.Exists(fs, "user-1.png.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	rc, err := s.Open(ctx, "user-1.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, "user-1.png"))
	_, err = s.Open(ctx, "user-1.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "user-1.png"))
}

func TestAvatarStore_Sobrescribe(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "a.jpg", strings.NewReader("v1"))
	require.NoError(t, err)
	_, err = s.Save(ctx, "a.jpg", strings.NewReader("v2"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, "a.jpg")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "v2", string(data))
}

func TestAvatarStore_NombresInvalidos(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"", "../etc/passwd", "a/b.png", `a\b.png`, ".hidden"} {
		_, err := s.Save(ctx, name, strings.NewReader("x"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
	assert.Empty(t, s.NameFromURL("https://otro.host/x.png"))
}
