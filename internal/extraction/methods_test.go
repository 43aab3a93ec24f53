package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func TestExtractPlainText_DropsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("caf\xc3\xa9 \xff\xfeok"), 0644))

	text, err := ExtractPlainText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "café ok", text)
}

func TestExtractPlainText_MissingFile(t *testing.T) {
	_, err := ExtractPlainText(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestWordXMLToText(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane</w:t></w:r><w:r><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t><w:br/><w:t>SQL</w:t></w:r></w:p>
</w:body>
</w:document>`

	text, err := wordXMLToText(content)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills:\tGo\nSQL", text)
}

func writeDocx(t *testing.T, path, body string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestExtractDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	writeDocx(t, path, `<w:p><w:r><w:t>Senior Engineer</w:t></w:r></w:p><w:p><w:r><w:t>Acme Corp</w:t></w:r></w:p>`)

	text, err := ExtractDOCX(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer\nAcme Corp", text)
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.doc")
	require.NoError(t, os.WriteFile(path, []byte("legacy binary word file"), 0644))

	_, err := ExtractDOCX(context.Background(), path)
	assert.Error(t, err)
}

func TestExtractPDF_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0644))

	_, err := ExtractPDF(context.Background(), path)
	assert.Error(t, err)
}

func TestExtractHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.html")
	html := `<html><head><style>body{}</style><script>var x=1;</script></head>
<body><h1>Jane   Doe</h1><p>Backend engineer</p><ul><li>Go</li><li>Kubernetes</li></ul></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0644))

	text, err := ExtractHTML(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nBackend engineer\nGo\nKubernetes", text)
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		img.Set(x, x, color.Black)
	}
	return img
}

func TestImageFileToPNG_ConvertsTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.tiff")
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, testImage(), nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	data, err := imageFileToPNG(path)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), decoded.Bounds())
}

func TestImageFileToPNG_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := imageFileToPNG(path)
	assert.Error(t, err)
}

func TestOCR_MissingBinary(t *testing.T) {
	_, err := NewOCR("definitely-not-installed-ocr").Extract(context.Background(), "scan.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on PATH")
}
