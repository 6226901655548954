package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sentinelName marks a fully extracted archive so re-extraction is skipped.
const sentinelName = ".extracted-ok"

// ExtractArchive unpacks a cached archive next to itself (into
// "<archive>.extracted/") and returns the paths of all extracted files.
// Supported formats: .zip, .tar, .tar.gz/.tgz, .tar.bz2/.tbz. Extraction is
// idempotent: if the archive was already unpacked the existing files are
// returned without re-reading the archive.
func ExtractArchive(archivePath string) ([]string, error) {
	destDir := archivePath + ".extracted"

	if _, err := os.Stat(filepath.Join(destDir, sentinelName)); err == nil {
		return listExtracted(destDir)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("extract: create dir: %w", err)
	}

	var err error
	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		err = extractZip(archivePath, destDir)
	case strings.HasSuffix(archivePath, ".tar"),
		strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"),
		strings.HasSuffix(archivePath, ".tar.bz2"), strings.HasSuffix(archivePath, ".tbz"):
		err = extractTar(archivePath, destDir)
	default:
		return nil, fmt.Errorf("extract: unsupported archive format: %s", filepath.Base(archivePath))
	}
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(destDir, sentinelName), nil, 0o644); err != nil {
		return nil, fmt.Errorf("extract: write sentinel: %w", err)
	}
	return listExtracted(destDir)
}

// Member returns the extracted path whose base name equals name.
// Returns an fs.ErrNotExist-wrapped error when the archive holds no such file.
func Member(paths []string, name string) (string, error) {
	for _, p := range paths {
		if filepath.Base(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("archive member %q: %w", name, fs.ErrNotExist)
}

func extractTar(archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("extract: open archive: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	switch {
	case strings.HasSuffix(archivePath, ".gz"), strings.HasSuffix(archivePath, ".tgz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("extract: gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	case strings.HasSuffix(archivePath, ".bz2"), strings.HasSuffix(archivePath, ".tbz"):
		reader = bzip2.NewReader(file)
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("extract: read tar: %w", err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			dir, err := securePath(destDir, hdr.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("extract: %w", err)
			}
		case tar.TypeReg:
			if err := writeMember(destDir, hdr.Name, tr); err != nil {
				return err
			}
		default:
			// Symlinks and other special entries are skipped; the published
			// dataset archives contain only files and directories.
		}
	}
}

func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("extract: open zip: %w", err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			dir, err := securePath(destDir, member.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("extract: %w", err)
			}
			continue
		}

		rc, err := member.Open()
		if err != nil {
			return fmt.Errorf("extract: open member %s: %w", member.Name, err)
		}
		err = writeMember(destDir, member.Name, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// writeMember writes one archive member under destDir, rejecting names that
// would escape it.
func writeMember(destDir, name string, r io.Reader) error {
	dest, err := securePath(destDir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("extract: create %s: %w", name, err)
	}
	_, err = io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("extract: write %s: %w", name, err)
	}
	return nil
}

// securePath joins name under destDir, rejecting absolute names and parent
// traversal.
func securePath(destDir, name string) (string, error) {
	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("extract: illegal member path %q", name)
	}
	return filepath.Join(destDir, name), nil
}

// listExtracted returns all regular files under destDir except the sentinel,
// sorted for deterministic ordering.
func listExtracted(destDir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(destDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && d.Name() != sentinelName {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("extract: list files: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
