package export

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"

	"zodchiy/internal/ir"
)

// Archive сериализует пакет в выбранный формат. Пути внутри архива —
// относительные, как в пакете.
func Archive(pkg *ir.ProjectPackage, format string) ([]byte, error) {
	switch format {
	case ir.FormatZip:
		return Zip(pkg)
	case ir.FormatTar:
		return TarGz(pkg)
	default:
		return nil, fmt.Errorf("unsupported archive format %q", format)
	}
}

// Zip пишет все файлы пакета плюс SETUP.md в zip-архив в памяти.
func Zip(pkg *ir.ProjectPackage) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range archiveEntries(pkg) {
		hdr := &zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: pkg.CreatedAt,
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", f.Path, err)
		}
		if _, err := w.Write([]byte(f.Content)); err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TarGz пишет пакет в tar, обёрнутый в gzip.
func TarGz(pkg *ir.ProjectPackage) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, f := range archiveEntries(pkg) {
		hdr := &tar.Header{
			Name:     f.Path,
			Mode:     0o644,
			Size:     int64(len(f.Content)),
			ModTime:  pkg.CreatedAt,
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("tar entry %s: %w", f.Path, err)
		}
		if _, err := tw.Write([]byte(f.Content)); err != nil {
			return nil, fmt.Errorf("tar entry %s: %w", f.Path, err)
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// archiveEntries — файлы пакета плюс SETUP.md. Пакет не изменяется.
func archiveEntries(pkg *ir.ProjectPackage) []ir.GeneratedFile {
	entries := make([]ir.GeneratedFile, 0, len(pkg.Files)+1)
	entries = append(entries, pkg.Files...)
	if pkg.SetupGuide != "" {
		entries = append(entries, ir.GeneratedFile{
			Path:     "SETUP.md",
			Content:  pkg.SetupGuide,
			Kind:     ir.KindDocumentation,
			Language: "markdown",
		})
	}
	return entries
}

// Filename — имя файла для Content-Disposition.
func Filename(pkg *ir.ProjectPackage, format string) string {
	ext := "zip"
	if format == ir.FormatTar {
		ext = "tar.gz"
	}
	return fmt.Sprintf("%s.%s", pkg.Name, ext)
}

// ContentType — медиатип архива для HTTP-ответа.
func ContentType(format string) string {
	if format == ir.FormatTar {
		return "application/gzip"
	}
	return "application/zip"
}
