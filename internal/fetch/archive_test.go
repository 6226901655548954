package fetch

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarGz(t *testing.T, path string, members map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range members {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func TestExtractArchive_TarGz(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "fabric.tar.gz")
	writeTarGz(t, archive, map[string]string{
		"GSFML/FZ.gmt":   "# @NName\n> \n10 20\n",
		"GSFML/UNCV.gmt": "# @NName\n> \n30 40\n",
	})

	paths, err := ExtractArchive(archive)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"FZ.gmt", "UNCV.gmt"}, baseNames(paths))

	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestExtractArchive_Zip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "lips.zip")
	writeZip(t, archive, map[string]string{
		"LIPS/catalogue.shp": "shape bytes",
		"LIPS/catalogue.dbf": "attr bytes",
	})

	paths, err := ExtractArchive(archive)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"catalogue.shp", "catalogue.dbf"}, baseNames(paths))
}

func TestExtractArchive_Idempotent(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "data.tar.gz")
	writeTarGz(t, archive, map[string]string{"file.txt": "payload"})

	first, err := ExtractArchive(archive)
	require.NoError(t, err)

	// Remove the archive: the second call must serve the extracted copy.
	require.NoError(t, os.Remove(archive))
	second, err := ExtractArchive(archive)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractArchive_UnsupportedFormat(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "data.rar")
	require.NoError(t, os.WriteFile(archive, []byte("junk"), 0o644))

	_, err := ExtractArchive(archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}

func TestExtractArchive_RejectsTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.tar.gz")
	writeTarGz(t, archive, map[string]string{"../escape.txt": "nope"})

	_, err := ExtractArchive(archive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal member path")
}

func TestMember(t *testing.T) {
	paths := []string{
		"/cache/a.extracted/GSFML/FZ.gmt",
		"/cache/a.extracted/GSFML/UNCV.gmt",
	}

	p, err := Member(paths, "UNCV.gmt")
	require.NoError(t, err)
	assert.Equal(t, paths[1], p)

	_, err = Member(paths, "missing.gmt")
	require.ErrorIs(t, err, fs.ErrNotExist)
}
