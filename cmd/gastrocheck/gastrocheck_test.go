package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	var out bytes.Buffer
	doc := `[{"name": "Birria Jalisco", "menu": [{"name": "Birria de res", "price": 140}], "ownerPhone": "33 1234 5678"},
	         {"name": "Nieves Tepoznieves"}]`
	err := check(&out, []byte(doc), "+52")
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "2 restaurants, 1 menu items")
	assert.Contains(t, out.String(), "1 restaurants without owner phone")
	assert.Contains(t, out.String(), "The catalog is valid")

	// schema errors are listed
	out.Reset()
	err = check(&out, []byte(`[{"menu": []}]`), "+52")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "invalid vs the json schema")

	// a valid schema but an unusable owner phone
	out.Reset()
	err = check(&out, []byte(`[{"name": "Fonda", "ownerPhone": "12345678"}]`), "+52")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "owner phone")
}
