package export

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zodchiy/internal/gen"
	"zodchiy/internal/ir"
	"zodchiy/internal/tmpl"
)

func sampleProject(t *testing.T) *ir.GeneratedProject {
	t.Helper()
	svc := gen.New(tmpl.NewEngine())
	project, err := svc.Generate([]ir.Model{{
		Name: "User",
		Fields: []ir.Field{
			{Name: "name", Type: ir.TypeString, Required: true},
			{Name: "email", Type: ir.TypeEmail, Required: true, Unique: true},
		},
	}}, ir.DefaultGenerationOptions())
	require.NoError(t, err)
	return project
}

func pkgPaths(p *ir.ProjectPackage) map[string]bool {
	out := make(map[string]bool, len(p.Files))
	for _, f := range p.Files {
		out[f.Path] = true
	}
	return out
}

func TestPackageBasicTier(t *testing.T) {
	project := sampleProject(t)
	pkg, err := NewPackage(project, ir.DefaultExportOptions())
	require.NoError(t, err)

	paths := pkgPaths(pkg)
	assert.True(t, paths[".gitignore"])
	assert.True(t, paths["Dockerfile"])
	assert.True(t, paths["docker-compose.yml"])
	assert.False(t, paths[".github/workflows/ci.yml"])
	assert.False(t, paths["k8s/deployment.yaml"])

	assert.Equal(t, project.ID, pkg.ID)
	assert.NotEmpty(t, pkg.SetupGuide)
	assert.Contains(t, pkg.SetupGuide, "JWT_SECRET")
	assert.Contains(t, pkg.SetupGuide, "GET /api/users")
}

func TestTiersAreNested(t *testing.T) {
	project := sampleProject(t)

	var prev map[string]bool
	for _, tier := range []string{ir.TierBasic, ir.TierAdvanced, ir.TierEnterprise} {
		opts := ir.DefaultExportOptions()
		opts.Template = tier
		pkg, err := NewPackage(project, opts)
		require.NoError(t, err)

		paths := pkgPaths(pkg)
		for p := range prev {
			assert.True(t, paths[p], "%s missing from %s", p, tier)
		}
		prev = paths
	}
	// верхний ярус несёт всю обвязку
	assert.True(t, prev["helm/Chart.yaml"])
	assert.True(t, prev["k8s/service.yaml"])
	assert.True(t, prev["prometheus.yml"])
}

func TestIncludeFlagsFilterFiles(t *testing.T) {
	project := sampleProject(t)
	opts := ir.DefaultExportOptions()
	opts.IncludeTests = false
	opts.IncludeDocs = false

	pkg, err := NewPackage(project, opts)
	require.NoError(t, err)

	for _, f := range pkg.Files {
		assert.NotEqual(t, ir.KindTest, f.Kind, "unexpected %s", f.Path)
		assert.NotEqual(t, ir.KindDocumentation, f.Kind, "unexpected %s", f.Path)
	}
}

func TestMetadataFromPackageJSON(t *testing.T) {
	project := sampleProject(t)
	pkg, err := NewPackage(project, ir.DefaultExportOptions())
	require.NoError(t, err)

	assert.Contains(t, pkg.Metadata.Dependencies, "express")
	assert.Contains(t, pkg.Metadata.Dependencies, "pg")
	assert.Contains(t, pkg.Metadata.DevDependencies, "typescript")
	assert.Equal(t, ir.TierBasic, pkg.Metadata.Tier)
	assert.Contains(t, pkg.Metadata.Features, "auth-jwt")
}

func TestMetadataWithoutPackageJSON(t *testing.T) {
	project := &ir.GeneratedProject{
		ID:        "run",
		Name:      "bare",
		Options:   ir.DefaultGenerationOptions(),
		CreatedAt: time.Now(),
	}
	pkg, err := NewPackage(project, ir.DefaultExportOptions())
	require.NoError(t, err)

	// порча или отсутствие манифеста — не ошибка, карты просто пустые
	assert.NotNil(t, pkg.Metadata.Dependencies)
	assert.Empty(t, pkg.Metadata.Dependencies)
	assert.NotNil(t, pkg.Metadata.DevDependencies)
	assert.Empty(t, pkg.Metadata.DevDependencies)
}

func TestInvalidExportOptions(t *testing.T) {
	project := sampleProject(t)

	opts := ir.DefaultExportOptions()
	opts.Format = "rar"
	_, err := NewPackage(project, opts)
	assert.Error(t, err)

	opts = ir.DefaultExportOptions()
	opts.Template = "platinum"
	_, err = NewPackage(project, opts)
	assert.Error(t, err)
}

func TestZipMagicAndRoundTrip(t *testing.T) {
	project := sampleProject(t)
	pkg, err := NewPackage(project, ir.DefaultExportOptions())
	require.NoError(t, err)

	blob, err := Zip(pkg)
	require.NoError(t, err)
	require.True(t, len(blob) > 4)
	assert.Equal(t, []byte{'P', 'K', 0x03, 0x04}, blob[:4])

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)

	want := map[string]string{}
	for _, f := range pkg.Files {
		want[f.Path] = f.Content
	}
	want["SETUP.md"] = pkg.SetupGuide

	require.Len(t, zr.File, len(want))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, want[zf.Name], string(data), zf.Name)
	}
}

func TestTarGzMagicAndRoundTrip(t *testing.T) {
	project := sampleProject(t)
	pkg, err := NewPackage(project, ir.DefaultExportOptions())
	require.NoError(t, err)

	blob, err := TarGz(pkg)
	require.NoError(t, err)
	require.True(t, len(blob) > 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, blob[:2])

	gz, err := gzip.NewReader(bytes.NewReader(blob))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	got := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		got[hdr.Name] = string(data)
	}

	assert.Len(t, got, len(pkg.Files)+1)
	assert.Equal(t, pkg.SetupGuide, got["SETUP.md"])
	for _, f := range pkg.Files {
		assert.Equal(t, f.Content, got[f.Path], f.Path)
	}
}

func TestArchiveDispatch(t *testing.T) {
	project := sampleProject(t)
	pkg, err := NewPackage(project, ir.DefaultExportOptions())
	require.NoError(t, err)

	zipBlob, err := Archive(pkg, ir.FormatZip)
	require.NoError(t, err)
	assert.Equal(t, byte('P'), zipBlob[0])

	tarBlob, err := Archive(pkg, ir.FormatTar)
	require.NoError(t, err)
	assert.Equal(t, byte(0x1f), tarBlob[0])

	_, err = Archive(pkg, "7z")
	assert.Error(t, err)
}

func TestFilenameAndContentType(t *testing.T) {
	pkg := &ir.ProjectPackage{Name: "generated-backend-x"}
	assert.Equal(t, "generated-backend-x.zip", Filename(pkg, ir.FormatZip))
	assert.Equal(t, "generated-backend-x.tar.gz", Filename(pkg, ir.FormatTar))
	assert.Equal(t, "application/zip", ContentType(ir.FormatZip))
	assert.Equal(t, "application/gzip", ContentType(ir.FormatTar))
}

func TestComposeMatchesDatabase(t *testing.T) {
	svc := gen.New(tmpl.NewEngine())
	for _, db := range []string{ir.DatabasePostgres, ir.DatabaseMySQL, ir.DatabaseMongo} {
		genOpts := ir.DefaultGenerationOptions()
		genOpts.Database = db
		project, err := svc.Generate(nil, genOpts)
		require.NoError(t, err)

		pkg, err := NewPackage(project, ir.DefaultExportOptions())
		require.NoError(t, err)

		var compose string
		for _, f := range pkg.Files {
			if f.Path == "docker-compose.yml" {
				compose = f.Content
			}
		}
		require.NotEmpty(t, compose, db)
		switch db {
		case ir.DatabasePostgres:
			assert.Contains(t, compose, "postgres:16-alpine")
		case ir.DatabaseMySQL:
			assert.Contains(t, compose, "mysql:8")
		case ir.DatabaseMongo:
			assert.Contains(t, compose, "mongo:7")
		}
	}
}
