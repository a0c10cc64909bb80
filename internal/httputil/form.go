package httputil

import (
	"net/http"
	"strconv"
)

// FormInt reads an integer form value, returning def when the value is
// absent or unparsable.
func FormInt(r *http.Request, name string, def int) int {
	raw := r.FormValue(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

// FormBool reads a boolean form value. Only the literal "true" counts.
func FormBool(r *http.Request, name string) bool {
	return r.FormValue(name) == "true"
}
