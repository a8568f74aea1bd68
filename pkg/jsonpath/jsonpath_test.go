package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersJSON = `{"users":[{"name":"Ada","tags":["x","y"]},{"name":"Linus","admin":null}],"count":2,"meta":{"next page":"/p2"}}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"nested array element", "$.users[0].name", "Ada"},
		{"second element", "$.users[1].name", "Linus"},
		{"nested array in array", "$.users[0].tags[1]", "y"},
		{"number", "$.count", "2"},
		{"null value", "$.users[1].admin", "null"},
		{"quoted key", "$.meta['next page']", "/p2"},
		{"gjson syntax", "users.0.name", "Ada"},
		{"object renders raw", "$.meta", `{"next page":"/p2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(usersJSON, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract("", "$.a")
	assert.EqualError(t, err, "empty JSON body")

	_, err = Extract(usersJSON, "")
	assert.EqualError(t, err, "empty JSONPath expression")

	_, err = Extract("not json", "$.a")
	assert.Error(t, err)

	_, err = Extract(usersJSON, "$.missing")
	assert.EqualError(t, err, "path not found: $.missing")
}

func TestToGJSON(t *testing.T) {
	tests := map[string]string{
		"$":                 "@this",
		"$.a":               "a",
		"$.a.b":             "a.b",
		"$[0]":              "0",
		"$[0].name":         "0.name",
		"$.users[2].id":     "users.2.id",
		`$["key"].value`:    "key.value",
		"$.matrix[1][0]":    "matrix.1.0",
		"plain.gjson.0.key": "plain.gjson.0.key",
	}

	for in, want := range tests {
		assert.Equal(t, want, ToGJSON(in), in)
	}
}
