package jsonx

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return jsonx.Marshal(v)
}

func MarshalIndent(v interface{}) ([]byte, error) {
	return jsonx.MarshalIndent(v, "", "  ")
}

func Unmarshal(data []byte, v interface{}) error {
	return jsonx.Unmarshal(data, v)
}

// Get reads the value at path without decoding the whole document, e.g.
// Get(body, "error", "message").
func Get(data []byte, path ...interface{}) jsoniter.Any {
	return jsonx.Get(data, path...)
}
