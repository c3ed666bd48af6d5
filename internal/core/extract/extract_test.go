package extract

import (
	"strings"
	"testing"

	"stylescraper/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html, pageURL string) *Page {
	t.Helper()
	p, err := Parse(strings.NewReader(html), pageURL)
	require.NoError(t, err)
	return p
}

func TestImages_ResolvesRelativeSrc(t *testing.T) {
	p := mustParse(t, `<img src="a.png" alt="x">`, "http://site/p")

	imgs, err := Images(p)
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "http://site/a.png", imgs[0].Src)
	assert.Equal(t, "x", imgs[0].Alt)
	assert.Nil(t, imgs[0].Width)
	assert.Nil(t, imgs[0].Height)
}

func TestImages_OrderDimensionsAndSkips(t *testing.T) {
	html := `<html><body>
		<img src="https://cdn.example/hero.jpg" width="640" height="480px">
		<img alt="no source">
		<img src="" alt="empty">
		<img src="/logo.svg" width="auto">
		<img src="//static.example/x.gif">
	</body></html>`
	p := mustParse(t, html, "https://site.example/blog/post")

	imgs, err := Images(p)
	require.NoError(t, err)
	require.Len(t, imgs, 3)

	assert.Equal(t, "https://cdn.example/hero.jpg", imgs[0].Src)
	require.NotNil(t, imgs[0].Width)
	require.NotNil(t, imgs[0].Height)
	assert.Equal(t, 640, *imgs[0].Width)
	assert.Equal(t, 480, *imgs[0].Height)
	assert.Equal(t, "", imgs[0].Alt)

	assert.Equal(t, "https://site.example/logo.svg", imgs[1].Src)
	assert.Nil(t, imgs[1].Width)

	assert.Equal(t, "https://static.example/x.gif", imgs[2].Src)
}

func TestImages_BadSrcIsAnError(t *testing.T) {
	p := mustParse(t, `<img src="%zz">`, "http://site/p")
	_, err := Images(p)
	assert.Error(t, err)
}

func TestColorsFromCSS(t *testing.T) {
	got := colorsFromCSS("color:#FF0000; background: rgb(1,2,3); border-color: #FF0000")
	assert.Equal(t, []session.Color{
		{Hex: "#FF0000", RGB: "", Usage: "unknown"},
		{Hex: "", RGB: "rgb(1,2,3)", Usage: "unknown"},
	}, got)
}

func TestColors_StyleBlocksThenAttributes(t *testing.T) {
	html := `<html><head><style>body { color: #abc; background: rgba(0, 0, 0, 0.5) }</style></head>
	<body>
		<div style="color:#FF0000">a</div>
		<p style="background: rgb(1,2,3); color: #abc">b</p>
	</body></html>`
	p := mustParse(t, html, "https://site.example")

	got := Colors(p)
	require.Len(t, got, 4)
	assert.Equal(t, "#abc", got[0].Hex)
	assert.Equal(t, "rgba(0, 0, 0, 0.5)", got[1].RGB)
	assert.Equal(t, "#FF0000", got[2].Hex)
	assert.Equal(t, "rgb(1,2,3)", got[3].RGB)
	for _, c := range got {
		assert.True(t, (c.Hex == "") != (c.RGB == ""), "exactly one of hex/rgb must be set: %+v", c)
		assert.Equal(t, "unknown", c.Usage)
	}
}

func TestColors_SixDigitHexWinsOverThree(t *testing.T) {
	got := colorsFromCSS("#a1b2c3")
	require.Len(t, got, 1)
	assert.Equal(t, "#a1b2c3", got[0].Hex)
}

func TestTypography_DefaultsAndDeclarations(t *testing.T) {
	html := `<h1 style="font-family: Georgia, serif; FONT-SIZE: 32px; font-weight:700">T</h1>
	<p>plain</p>
	<span style="font-size: 12px">s</span>
	<div style="font-family: Arial">ignored</div>`
	p := mustParse(t, html, "https://site.example")

	got := Typography(p)
	assert.Equal(t, []session.Typography{
		{FontFamily: "Georgia, serif", FontSize: "32px", FontWeight: "700", Element: "h1"},
		{FontFamily: "inherit", FontSize: "inherit", FontWeight: "normal", Element: "p"},
		{FontFamily: "inherit", FontSize: "12px", FontWeight: "normal", Element: "span"},
	}, got)
}

func TestContent_SkipsBlankBlocks(t *testing.T) {
	p := mustParse(t, `<h2>Hello</h2><p>  </p>`, "https://site.example")

	got := Content(p)
	assert.Equal(t, []session.ContentBlock{{Text: "Hello", Element: "h2", Hierarchy: 2}}, got)
}

func TestContent_HierarchyAndOrder(t *testing.T) {
	html := `<h1> Title </h1><p>Intro <b>bold</b></p><h6>small</h6>`
	p := mustParse(t, html, "https://site.example")

	got := Content(p)
	require.Len(t, got, 3)
	assert.Equal(t, session.ContentBlock{Text: "Title", Element: "h1", Hierarchy: 1}, got[0])
	assert.Equal(t, session.ContentBlock{Text: "Intro bold", Element: "p", Hierarchy: 7}, got[1])
	assert.Equal(t, 6, got[2].Hierarchy)
}

func TestRun_OnlyEnabledPasses(t *testing.T) {
	html := `<style>a{color:#123456}</style><img src="x.png"><h1>Hi</h1>`
	p := mustParse(t, html, "https://site.example/")

	res, err := Run(p, session.Options{Images: true, Content: true})
	require.NoError(t, err)
	assert.Len(t, res.Images, 1)
	assert.Len(t, res.Content, 1)
	assert.Nil(t, res.Colors)
	assert.Nil(t, res.Typography)
}

func TestRun_EnabledWithoutMatchesIsEmptyNotNil(t *testing.T) {
	p := mustParse(t, `<div>nothing</div>`, "https://site.example/")

	res, err := Run(p, session.Options{Images: true, Colors: true})
	require.NoError(t, err)
	assert.NotNil(t, res.Images)
	assert.Empty(t, res.Images)
	assert.NotNil(t, res.Colors)
}

func TestRun_ImageErrorAbortsRest(t *testing.T) {
	p := mustParse(t, `<img src="%zz"><h1>Hi</h1>`, "https://site.example/")

	res, err := Run(p, session.Options{Images: true, Content: true})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "images")
}

func TestParse_BadPageURL(t *testing.T) {
	_, err := Parse(strings.NewReader("<p>x</p>"), "http://[::1")
	assert.Error(t, err)
}
