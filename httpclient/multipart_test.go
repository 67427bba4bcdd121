package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	name, filename, contentType, data string
}

func readParts(t *testing.T, r io.Reader, contentType string) []part {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	var out []part
	mr := multipart.NewReader(r, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		out = append(out, part{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			data:        string(data),
		})
	}
	return out
}

func TestMultipartBody_FilesThenSortedFields(t *testing.T) {
	mp := &MultipartBody{
		Fields: map[string]string{"language": "en", "response_format": "json"},
		Files: []FileField{
			{FieldName: "file", FileName: "audio.wav", ContentType: "audio/wav", Data: []byte("RIFF")},
		},
	}

	r, ct, err := mp.encode()
	require.NoError(t, err)

	parts := readParts(t, r, ct)
	require.Len(t, parts, 3)
	assert.Equal(t, part{name: "file", filename: "audio.wav", contentType: "audio/wav", data: "RIFF"}, parts[0])
	assert.Equal(t, "language", parts[1].name)
	assert.Equal(t, "en", parts[1].data)
	assert.Equal(t, "response_format", parts[2].name)
}

func TestMultipartBody_DefaultContentTypeAndReader(t *testing.T) {
	mp := &MultipartBody{
		Files: []FileField{{FieldName: "f", FileName: "a.bin", Reader: bytes.NewReader([]byte("xyz"))}},
	}

	r, ct, err := mp.encode()
	require.NoError(t, err)

	parts := readParts(t, r, ct)
	require.Len(t, parts, 1)
	assert.Equal(t, "application/octet-stream", parts[0].contentType)
	assert.Equal(t, "xyz", parts[0].data)
}

func TestEscapeQuotes(t *testing.T) {
	assert.Equal(t, `a\"b\\c`, escapeQuotes(`a"b\c`))
}
