package document

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Size reads the width and height declared on the root svg element.
// It reports false when either is missing or not a positive number.
func Size(markup string) (width, height float64, ok bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return 0, 0, false
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return 0, 0, false
	}
	width, okW := positive(root.SelectAttrValue("width", ""))
	height, okH := positive(root.SelectAttrValue("height", ""))
	if !okW || !okH {
		return 0, 0, false
	}
	return width, height, true
}

func positive(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "px"), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
