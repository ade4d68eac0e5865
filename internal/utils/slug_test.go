package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Café Olé!":                                "cafe-ole",
		"CAFÉ olé":                                 "cafe-ole",
		"  Hola   Mundo  ":                         "hola-mundo",
		"Año Nuevo en la almazara":                 "ano-nuevo-en-la-almazara",
		"Aceite de Oliva Virgen Extra: ¿el mejor?": "aceite-de-oliva-virgen-extra-el-mejor",
		"my-post":                                  "my-post",
		"---":                                      "",
	}

	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	for _, title := range []string{"Café Olé!", "Receta: pan de aceite", "Über Öl & Ñoquis"} {
		once := Slugify(title)
		assert.Equal(t, once, Slugify(once), title)
	}
}
