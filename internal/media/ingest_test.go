package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receptive/reviews-backend/internal/httperr"
)

func testImageBytes(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, nil)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

// buildBatch assembles a multipart form and parses it back to obtain
// real file headers, the same shape the handler hands to Ingest.
func buildBatch(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, data := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, name))
		switch {
		case strings.HasSuffix(name, ".png"):
			header.Set("Content-Type", "image/png")
		case strings.HasSuffix(name, ".gif"):
			header.Set("Content-Type", "image/gif")
		case strings.HasSuffix(name, ".txt"):
			header.Set("Content-Type", "text/plain")
		default:
			header.Set("Content-Type", "image/jpeg")
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["images"]
}

func TestValidateBatchTooManyFiles(t *testing.T) {
	files := make(map[string][]byte)
	for i := 0; i < 6; i++ {
		files[fmt.Sprintf("img%d.jpg", i)] = testImageBytes(t, "jpeg")
	}
	err := ValidateBatch(buildBatch(t, files), MaxFiles)
	require.Error(t, err)
	assert.ErrorIs(t, err, httperr.ErrValidation)
}

func TestValidateBatchRespectsTighterLimit(t *testing.T) {
	files := make(map[string][]byte)
	for i := 0; i < 5; i++ {
		files[fmt.Sprintf("img%d.jpg", i)] = testImageBytes(t, "jpeg")
	}
	batch := buildBatch(t, files)

	assert.NoError(t, ValidateBatch(batch, 5))
	assert.ErrorIs(t, ValidateBatch(batch, 4), httperr.ErrValidation)
}

func TestValidateBatchRejectsNonImageType(t *testing.T) {
	batch := buildBatch(t, map[string][]byte{"notes.txt": []byte("not an image")})
	err := ValidateBatch(batch, MaxFiles)
	require.Error(t, err)
	assert.ErrorIs(t, err, httperr.ErrValidation)
}

func TestValidateBatchAcceptsAllowedTypes(t *testing.T) {
	batch := buildBatch(t, map[string][]byte{
		"a.jpg": testImageBytes(t, "jpeg"),
		"b.png": testImageBytes(t, "png"),
		"c.gif": testImageBytes(t, "gif"),
	})
	assert.NoError(t, ValidateBatch(batch, MaxFiles))
}

func TestIngestEmptyBatch(t *testing.T) {
	urls, err := Ingest(context.Background(), nil, MaxFiles)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestNormalizeJPEGStaysJPEG(t *testing.T) {
	norm, err := normalize(bytes.NewReader(testImageBytes(t, "jpeg")))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", norm.contentType)
	assert.Equal(t, "jpg", norm.ext)

	_, format, err := image.Decode(bytes.NewReader(norm.data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalizePNGPassesThrough(t *testing.T) {
	norm, err := normalize(bytes.NewReader(testImageBytes(t, "png")))
	require.NoError(t, err)
	assert.Equal(t, "image/png", norm.contentType)
	assert.Equal(t, "png", norm.ext)
}

func TestNormalizeGIFBecomesJPEG(t *testing.T) {
	norm, err := normalize(bytes.NewReader(testImageBytes(t, "gif")))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", norm.contentType)

	_, format, err := image.Decode(bytes.NewReader(norm.data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := normalize(bytes.NewReader([]byte("definitely not pixels")))
	require.Error(t, err)
	assert.ErrorIs(t, err, httperr.ErrValidation)
}
