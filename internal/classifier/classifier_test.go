package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"archwiki-offline/internal/models"
)

func TestClassify(t *testing.T) {
	c := New("https://wiki.archlinux.org", "http://wiki.archlinux.org/")
	cases := []struct {
		ref  string
		want models.LinkKind
	}{
		{"/index.php/Foo", models.LinkInternalPage},
		{"/index.php/Foo#Bar", models.LinkInternalPage},
		{"https://wiki.archlinux.org/index.php/Foo", models.LinkInternalPage},
		{"http://wiki.archlinux.org/index.php/Foo", models.LinkInternalPage},
		{"https://wiki.archlinux.org.evil/index.php/Foo", models.LinkExternal},
		{"/images/a/ab/Foo.png", models.LinkAsset},
		{"#Installation", models.LinkFragment},
		{"https://archlinux.org/", models.LinkExternal},
		{"//example.com/x", models.LinkExternal},
		{"mailto:someone@example.com", models.LinkExternal},
		{"../Foo.html", models.LinkOther},
		{"/index.php", models.LinkOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.ref), tc.ref)
	}
}

func TestPageLink(t *testing.T) {
	c := New("https://wiki.archlinux.org")

	title, frag, ok := c.PageLink("/index.php/Arch_Linux%20(Deutsch)#See%20also")
	assert.True(t, ok)
	assert.Equal(t, "Arch_Linux (Deutsch)", title)
	assert.Equal(t, "See also", frag)

	title, frag, ok = c.PageLink("https://wiki.archlinux.org/index.php/Pacman/Tips")
	assert.True(t, ok)
	assert.Equal(t, "Pacman/Tips", title)
	assert.Empty(t, frag)

	_, _, ok = c.PageLink("/index.php/")
	assert.False(t, ok)
}

func TestNormalizeKeepsUndecodable(t *testing.T) {
	c := New()
	assert.Equal(t, "/index.php/100%zz", c.Normalize("/index.php/100%zz"))
	assert.Equal(t, "/index.php/100%_Pure Linux", c.Normalize("/index.php/100%_Pure%20Linux"))
	assert.Equal(t, "/index.php/Foo Bar#Sec%zz", c.Normalize("/index.php/Foo%20Bar#Sec%zz"))
}

func TestUnquote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a%20b", "a b"},
		{"a+b", "a+b"},
		{"%C3%A9t%C3%A9", "été"},
		{"%E2%9C", "\uFFFD"},
		{"100%", "100%"},
		{"%2", "%2"},
		{"%%41", "%A"},
		{"%4a%4A", "JJ"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Unquote(tc.in), tc.in)
	}
}

func TestAssetName(t *testing.T) {
	assert.Equal(t, "Foo.png", AssetName("/images/a/ab/Foo.png"))
	assert.Equal(t, "", AssetName("/images/"))
	assert.True(t, IsAsset("/images/Foo.png"))
	assert.False(t, IsAsset("images/Foo.png"))
}
