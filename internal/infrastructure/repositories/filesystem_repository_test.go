package repositories_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgshrink/internal/domain/entities"
	"imgshrink/internal/infrastructure/repositories"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFileSystemRepository_ListThemeFolders(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dogs"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cats", "nested"), 0755))
	writeFile(t, filepath.Join(root, "loose.jpg"), "x")

	repo := repositories.NewFileSystemRepository()
	folders, err := repo.ListThemeFolders(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"cats", "dogs"}, folders)

	_, err = repo.ListThemeFolders(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, entities.ErrDirectoryNotFound)
}

func TestFileSystemRepository_ListImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cats")
	for _, name := range []string{"b.PNG", "a.jpg", "c.webp", "d.gif", "e.jpeg", "notes.txt", "f.bmp"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	writeFile(t, filepath.Join(dir, "nested", "g.jpg"), "x")

	repo := repositories.NewFileSystemRepository()
	images, err := repo.ListImages(dir)
	require.NoError(t, err)

	var names []string
	for _, p := range images {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"a.jpg", "b.PNG", "c.webp", "d.gif", "e.jpeg"}, names)
}

func TestFileSystemRepository_WriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "theme", "a.jpg")

	repo := repositories.NewFileSystemRepository()
	require.NoError(t, repo.WriteFileAtomic(path, []byte("first")))
	require.NoError(t, repo.WriteFileAtomic(path, []byte("second")))

	data, err := repo.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.NoFileExists(t, path+".tmp")

	info, err := repo.GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "theme", info.Theme)
	assert.Equal(t, int64(6), info.Size)
}

func TestFileSystemRepository_ReadMissingFile(t *testing.T) {
	repo := repositories.NewFileSystemRepository()
	_, err := repo.ReadFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, entities.ErrFileNotFound)
}

func TestFileSystemRepository_RemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	writeFile(t, path, "x")

	repo := repositories.NewFileSystemRepository()
	require.NoError(t, repo.RemoveFile(path))
	assert.False(t, repo.FileExists(path))

	// Повторное удаление не считается ошибкой
	assert.NoError(t, repo.RemoveFile(path))
}
