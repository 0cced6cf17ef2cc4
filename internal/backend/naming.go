package backend

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var fsReplacer = strings.NewReplacer(
	"'", "",
	"`", "",
	",", "",
	" ", "",
	":", "-",
	"/", "-",
	"\\", "-",
	"&", "And",
	"|", "Or",
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"û", "u",
)

// SanitizeName makes text safe and compact for use in an image file name.
func SanitizeName(text string) string {
	return fsReplacer.Replace(text)
}

// ImageIndex parses the one- or two-digit index that ends an image name
// before its extension: "x+Bolt+7.png" is 7, "x+Bolt+12.jpg" is 12.
func ImageIndex(name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	n := 0
	for n < 2 && n < len(stem) && stem[len(stem)-1-n] >= '0' && stem[len(stem)-1-n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, false
	}
	idx, err := strconv.Atoi(stem[len(stem)-n:])
	if err != nil {
		return 0, false
	}
	return idx, true
}

// nextImageIndex continues numbering after the last image. Names from the
// first generation of the catalogue (IMG_FRONT, IMG_BACK) restart at 0.
func nextImageIndex(images []string) int {
	if len(images) == 0 {
		return 0
	}
	last := images[len(images)-1]
	if strings.Contains(last, "IMG_FRONT") || strings.Contains(last, "IMG_BACK") {
		return 0
	}
	idx, ok := ImageIndex(last)
	if !ok {
		return 0
	}
	return idx + 1
}

// imageName builds "<id>+<set>+<card>+<index>.<ext>". A non-empty fragment
// is appended to the card part to dodge an existing file.
func imageName(id int64, setName, cardName, fragment string, index int, ext string) string {
	card := cardName
	if fragment != "" {
		card += "-" + fragment
	}
	return SanitizeName(fmt.Sprintf("%d+%s+%s+%d.%s", id, setName, card, index, ext))
}

func uniqueFragment() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
