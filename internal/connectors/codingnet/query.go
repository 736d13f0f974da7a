package codingnet

import (
	"crypto/sha1" //nolint:gosec // the login endpoint expects a SHA-1 digest
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
)

// PerPage is appended to every paged path.
const PerPage = "pageSize=500"

type loginQuery struct {
	Account    string
	Password   string
	RememberMe bool
}

type stepUpQuery struct {
	Code string
}

// EncodeQuery turns the exported fields of a struct into a query string
// with snake_case keys.
func EncodeQuery(v any) (string, error) {
	fields := map[string]any{}
	if err := mapstructure.Decode(v, &fields); err != nil {
		return "", fmt.Errorf("coding: encode query: %w", err)
	}
	values := url.Values{}
	for k, val := range fields {
		values.Set(strcase.ToSnake(k), fmt.Sprint(val))
	}
	return values.Encode(), nil
}

// PasswordHash returns the lowercase hex SHA-1 of password.
func PasswordHash(password string) string {
	sum := sha1.Sum([]byte(password)) //nolint:gosec // the login endpoint expects a SHA-1 digest
	return hex.EncodeToString(sum[:])
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
