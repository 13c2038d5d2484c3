package catalog

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	bytes, err := os.ReadFile("testdata/catalog.json")
	require.NoError(t, err)

	entries, err := Parse(bytes)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "El Fogón Tradicional", entries[0].Name)
	assert.Equal(t, "+525551234567", entries[0].OwnerPhone)
	require.Len(t, entries[1].Menu, 2)
	assert.Equal(t, float64(150), entries[1].Menu[1].Price)

	s := Summarize(entries)
	assert.Equal(t, Summary{Restaurants: 3, MenuItems: 4, WithoutOwner: 2, WithoutMenu: 1}, s)
}

func TestValidate(t *testing.T) {
	invalid := map[string]string{
		"not an array":     `{"name": "Solo"}`,
		"missing name":     `[{"address": "Calle 1"}]`,
		"negative price":   `[{"name": "Fonda", "menu": [{"name": "Sopa", "price": -3}]}]`,
		"item name":        `[{"name": "Fonda", "menu": [{"price": 30}]}]`,
		"bad coordinates":  `[{"name": "Fonda", "coords": "norte"}]`,
		"unknown field":    `[{"name": "Fonda", "rating": 5}]`,
		"long description": `[{"name": "Fonda", "description": "` + strings.Repeat("a", 4001) + `"}]`,
	}
	for name, doc := range invalid {
		err := Validate([]byte(doc))
		var schemaErr *SchemaError
		if assert.ErrorAs(t, err, &schemaErr, name) {
			assert.NotEmpty(t, schemaErr.Errors, name)
		}
	}

	// not json at all
	_, err := Parse([]byte("restaurants"))
	assert.Error(t, err)

	assert.NoError(t, Validate([]byte(`[]`)))
}

func TestImportRequest(t *testing.T) {
	e := Entry{
		Name:   "Tacos Don Beto",
		Coords: "19.4326, -99.1332",
		Menu:   []MenuItem{{Name: "Pastor", Price: 18}},
	}

	_, err := e.ImportRequest("")
	assert.ErrorIs(t, err, ErrNoOwner)

	req, err := e.ImportRequest("+525500000000")
	require.NoError(t, err)
	assert.Equal(t, "+525500000000", req.OwnerPhone)
	assert.Len(t, req.Menu, 1)

	e.OwnerPhone = "+525511111111"
	req, err = e.ImportRequest("+525500000000")
	require.NoError(t, err)
	assert.Equal(t, "+525511111111", req.OwnerPhone)

	// checked like the server does
	e.Coords = "95,200"
	_, err = e.ImportRequest("+525500000000")
	assert.Error(t, err)

	// the menu is always sent
	empty := Entry{Name: "Sin menú"}
	req, err = empty.ImportRequest("+525500000000")
	require.NoError(t, err)
	assert.NotNil(t, req.Menu)
}
