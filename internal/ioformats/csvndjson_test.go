package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archwiki-offline/internal/models"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestReadRedirectsCSV(t *testing.T) {
	p := write(t, "r.csv", "to,from\nNew#Section,Old\n,Empty\nPacman/Tips,Pacman tips\n")
	rs, err := ReadRedirects(p)
	require.NoError(t, err)
	assert.Equal(t, []models.Redirect{
		{From: "Old", To: "New#Section"},
		{From: "Pacman tips", To: "Pacman/Tips"},
	}, rs)
}

func TestReadRedirectsCSVMissingColumns(t *testing.T) {
	_, err := ReadRedirects(write(t, "r.csv", "url\nx\n"))
	assert.Error(t, err)
}

func TestReadRedirectsNDJSON(t *testing.T) {
	p := write(t, "r.ndjson", `{"from":"Old","to":"New"}`+"\n\n"+`{"from":"A","to":"B#c"}`+"\n")
	rs, err := ReadRedirects(p)
	require.NoError(t, err)
	assert.Equal(t, []models.Redirect{{From: "Old", To: "New"}, {From: "A", To: "B#c"}}, rs)

	_, err = ReadRedirects(write(t, "bad.jsonl", "not json\n"))
	assert.ErrorContains(t, err, "bad.jsonl:1")
}

func TestReadRedirectsJSON(t *testing.T) {
	rs, err := ReadRedirects(write(t, "r.json", `{"Old": "New"}`))
	require.NoError(t, err)
	assert.Equal(t, []models.Redirect{{From: "Old", To: "New"}}, rs)
}

func TestReadRedirectsUnknownExtension(t *testing.T) {
	rs, err := ReadRedirects(write(t, "redirects", `{"from":"Old","to":"New"}`+"\n"))
	require.NoError(t, err)
	assert.Len(t, rs, 1)
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, []models.Result{{Input: "a.html"}, {Input: "b.html", Error: "boom"}}))
	assert.Equal(t, "{\"input\":\"a.html\"}\n{\"input\":\"b.html\",\"error\":\"boom\"}\n", buf.String())
}
