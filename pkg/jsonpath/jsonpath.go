// Package jsonpath evaluates simple JSONPath expressions against response
// bodies.
package jsonpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Lookup resolves a JSONPath expression such as "$.users[0].name" against
// body. Paths already in gjson syntax are accepted as well.
func Lookup(body []byte, path string) (gjson.Result, error) {
	if len(body) == 0 {
		return gjson.Result{}, errors.New("empty JSON body")
	}
	if path == "" {
		return gjson.Result{}, errors.New("empty JSONPath expression")
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("body is not valid JSON")
	}

	result := gjson.GetBytes(body, ToGJSON(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}
	return result, nil
}

// Extract returns the value at path as a string. JSON null renders as
// "null"; objects and arrays render as raw JSON.
func Extract(body, path string) (string, error) {
	result, err := Lookup([]byte(body), path)
	if err != nil {
		return "", err
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ToGJSON converts a JSONPath expression to gjson path syntax:
//
//	$                -> @this
//	$.users[0].name  -> users.0.name
//	$['a b'].c       -> a b.c
func ToGJSON(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "$")
	if path == "" {
		return "@this"
	}

	var sb strings.Builder
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				sb.WriteString(path[i:])
				return strings.TrimPrefix(sb.String(), ".")
			}
			key := strings.Trim(path[i+1:i+end], `'"`)
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(key)
			i += end
		case '.':
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
