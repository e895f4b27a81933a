package client

import "github.com/mezonai/xoledger/jsonx"

func jsonMarshal(v interface{}) (string, error) {
	b, err := jsonx.Marshal(v)
	return string(b), err
}
