package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyHMACHex(t *testing.T) {
	payload := []byte(`{"subject":"hola"}`)
	const sig = "7becdf26095cc7d51641f3cc489cc1efc9e14d57b680fb495ff12b65dbc25e49"

	assert.Equal(t, sig, GenerateHMACHex(payload, "secret"))
	assert.True(t, VerifyHMACHex(payload, sig, "secret"))
	assert.True(t, VerifyHMACHex(payload, " 7BECDF26095CC7D51641F3CC489CC1EFC9E14D57B680FB495FF12B65DBC25E49 ", "secret"))
	assert.False(t, VerifyHMACHex(payload, sig, "other"))
	assert.False(t, VerifyHMACHex([]byte(`{}`), sig, "secret"))
}
