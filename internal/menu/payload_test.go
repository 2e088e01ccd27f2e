package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuPayloadRoundTrip(t *testing.T) {
	p := MenuPayload{Level: 1, MenuName: MenuProducts, CategoryID: 3, Page: 2}
	assert.Equal(t, "v1|1|products|3|2", p.Encode())

	got, err := DecodeMenuPayload(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestMenuPayloadPageFloor(t *testing.T) {
	assert.Equal(t, "v1|0|catalog|0|1", MenuPayload{MenuName: MenuCatalog}.Encode())

	got, err := DecodeMenuPayload("v1|1|products|3|0")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
}

func TestDecodeMenuPayloadRejectsGarbage(t *testing.T) {
	for _, data := range []string{
		"",
		"v1|1|products|3",
		"v0|1|products|3|1",
		"v1|x|products|3|1",
		"v1|1|products|x|1",
		"v1|1|products|3|x",
	} {
		_, err := DecodeMenuPayload(data)
		assert.Error(t, err, "data %q", data)
	}
}

func TestCartPayloadRoundTrip(t *testing.T) {
	p := CartPayload{Action: CartDecrement, Page: 2, ProductID: 9}
	assert.Equal(t, "v1|decrement|2|9", p.Encode())

	got, err := DecodeCartPayload(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodeCartPayloadRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "v1|add|1", "v0|add|1|9", "v1|add|x|9", "v1|add|1|x"} {
		_, err := DecodeCartPayload(data)
		assert.Error(t, err, "data %q", data)
	}
}
