package invoice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_NilDocument(t *testing.T) {
	r, err := NewRenderer(RendererConfig{ShopName: "OrderDesk"})
	require.NoError(t, err)

	page, err := r.Render(nil)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestRender_Page(t *testing.T) {
	r, err := NewRenderer(RendererConfig{
		ShopName: "OrderDesk",
		LogoURL:  "https://cdn.example.com/logo.png",
	})
	require.NoError(t, err)

	doc := Build(testOrder(), generatedAt)
	page, err := r.Render(doc)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "OrderDesk")
	assert.Contains(t, page, "https://cdn.example.com/logo.png")
	assert.Contains(t, page, "INV-20250615-7C2F91AB")
	assert.Contains(t, page, "15-06-2025")
	assert.Contains(t, page, "Starter Kit (Bundle)")
	assert.Contains(t, page, "-4.50")
	assert.Contains(t, page, "window.print()")
	assert.Contains(t, page, "@media print")

	// Self-contained page: no external stylesheets or scripts.
	assert.NotContains(t, page, "<link")
	assert.NotContains(t, page, "<script src")
}

func TestRender_OmitsLogoWhenUnset(t *testing.T) {
	r, err := NewRenderer(RendererConfig{ShopName: "OrderDesk"})
	require.NoError(t, err)

	page, err := r.Render(Build(testOrder(), generatedAt))
	require.NoError(t, err)
	assert.NotContains(t, page, "<img")
}
