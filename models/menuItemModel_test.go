package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllImages_FallsBackToDefault(t *testing.T) {
	item := MenuItem{}
	assert.Equal(t, []string{DefaultMenuItemImage}, item.AllImages())

	item.Image = DefaultMenuItemImage
	assert.Equal(t, []string{DefaultMenuItemImage}, item.AllImages())
}

func TestAllImages_MergesLegacyAndGallery(t *testing.T) {
	item := MenuItem{
		Image:  "https://cdn.example.com/main.jpg",
		Images: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	}
	assert.Equal(t, []string{
		"https://cdn.example.com/main.jpg",
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, item.AllImages())
}

func TestAllImages_GalleryOnly(t *testing.T) {
	item := MenuItem{
		Image:  DefaultMenuItemImage,
		Images: []string{"https://cdn.example.com/a.jpg"},
	}
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, item.AllImages())
}
