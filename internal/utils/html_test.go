package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Hola mundo adios", StripHTML("<p>Hola <b>mundo</b></p><p>adios</p>"))
	assert.Equal(t, "uno dos", StripHTML("uno<br>dos"))
	assert.Equal(t, "texto", StripHTML("<style>p{color:red}</style><p>texto</p>"))
	assert.Equal(t, "", StripHTML("   "))
}

func TestExcerptShortContentUnchanged(t *testing.T) {
	assert.Equal(t, "Aceite nuevo", Excerpt("<p>Aceite   nuevo</p>", 200))
}

func TestExcerptTruncatesAtWordBoundary(t *testing.T) {
	content := "<p>" + strings.Repeat("palabra ", 40) + "</p>"

	got := Excerpt(content, 20)

	assert.Equal(t, "palabra palabra...", got)
}

func TestTextToHTML(t *testing.T) {
	assert.Equal(t, "<p>uno<br>dos</p><p>&lt;b&gt;</p>", TextToHTML("uno\ndos\n\n<b>"))
	assert.Equal(t, "", TextToHTML("  "))
}
