package backend

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Kaladesh-Inventions", SanitizeName("Kaladesh: Inventions"))
	assert.Equal(t, "SwordsAndPlowshares", SanitizeName("Swords & Plowshares"))
	assert.Equal(t, "SeanceOrNot", SanitizeName("Séance | Not"))
	assert.Equal(t, "Lim-DulsVault", SanitizeName("Lim-Dûl's Vault"))
	assert.Equal(t, "JacetheMindSculptor", SanitizeName("Jace, the Mind Sculptor"))
	assert.Equal(t, "Eternal-Cafe", SanitizeName("Eternal: Café"))
	assert.Equal(t, "Fire--Ice", SanitizeName("Fire // Ice"))
	assert.Equal(t, "Who-What", SanitizeName(`Who\What`))
}

func TestImageName_SplitCardStaysOneFile(t *testing.T) {
	name := imageName(0, "Apocalypse", "Fire // Ice", "", 0, "png")
	assert.Equal(t, "0+Apocalypse+Fire--Ice+0.png", name)
	assert.Equal(t, name, filepath.Base(name))
}

func TestImageIndex(t *testing.T) {
	cases := []struct {
		name string
		idx  int
		ok   bool
	}{
		{"1+Alpha+Bolt+0.png", 0, true},
		{"1+Alpha+Bolt+7.jpg", 7, true},
		{"1+Alpha+Bolt+12.jpeg", 12, true},
		{"1+Alpha+Bolt+123.png", 23, true},
		{"IMG_FRONT.png", 0, false},
	}
	for _, c := range cases {
		idx, ok := ImageIndex(c.name)
		assert.Equal(t, c.ok, ok, c.name)
		assert.Equal(t, c.idx, idx, c.name)
	}
}

func TestNextImageIndex(t *testing.T) {
	assert.Equal(t, 0, nextImageIndex(nil))
	assert.Equal(t, 3, nextImageIndex([]string{"a+0.png", "a+2.png"}))
	assert.Equal(t, 0, nextImageIndex([]string{"1+IMG_BACK.png"}))
	assert.Equal(t, 0, nextImageIndex([]string{"noindex.png"}))
}
