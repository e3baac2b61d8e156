package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!doctype html><html lang="en"><head>
<title>Test Page</title>
<link rel="stylesheet" href="/load.php?modules=site">
</head><body>
<div id="content"><p>Go is great for network services.</p></div>
</body></html>`

func TestParse(t *testing.T) {
	doc, err := New().Parse(strings.NewReader(sampleHTML), "text/html; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "Test Page", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find(`head > link[rel="stylesheet"]`).Length())
}

func TestParseDecodesCharset(t *testing.T) {
	in := "<html><head><title>Caf\xe9</title></head><body></body></html>"
	doc, err := New().Parse(strings.NewReader(in), "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "Café", doc.Find("title").Text())
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n\t"} {
		_, err := New().Parse(strings.NewReader(in), "")
		require.Error(t, err)

		var mErr *MalformedInputError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, "empty document", mErr.Reason)
		assert.ErrorIs(t, err, ErrMalformedInput)
	}
}

func TestRender(t *testing.T) {
	in := `<html><head><title>T</title><link rel="stylesheet" href="a.css"></head>` +
		`<body><div id="content"><p>Hi <b>there</b></p></div></body></html>`
	doc, err := New().Parse(strings.NewReader(in), "")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, Render(&sb, doc))

	want := "<!DOCTYPE html>\n" +
		"<html>\n" +
		"  <head>\n" +
		"    <title>T</title>\n" +
		"    <link rel=\"stylesheet\" href=\"a.css\"/>\n" +
		"  </head>\n" +
		"  <body>\n" +
		"    <div id=\"content\">\n" +
		"      <p>Hi <b>there</b></p>\n" +
		"    </div>\n" +
		"  </body>\n" +
		"</html>\n"
	assert.Equal(t, want, sb.String())
}

func TestRenderKeepsInlineAndPre(t *testing.T) {
	in := `<html><head></head><body><ul><li><a href="x">x</a><span>y</span></li></ul>` +
		"<pre>\n  keep\n    this</pre></body></html>"
	doc, err := New().Parse(strings.NewReader(in), "")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, Render(&sb, doc))
	out := sb.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html>"))
	assert.Contains(t, out, `<li><a href="x">x</a><span>y</span></li>`)
	assert.Contains(t, out, "  keep\n    this</pre>")
}

func TestRenderEscapesAttributes(t *testing.T) {
	in := `<html><head></head><body><div title="a &quot;b&quot; &amp; c"><div></div></div></body></html>`
	doc, err := New().Parse(strings.NewReader(in), "")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, Render(&sb, doc))
	assert.Contains(t, sb.String(), `<div title="a &#34;b&#34; &amp; c">`)
}
