package nibel

import (
	"encoding/base64"
	"encoding/json"
	"net/url"

	"github.com/vmihailenco/msgpack/v5"
)

// Serializer turns argument payloads into route-safe strings and back.
type Serializer interface {
	Serialize(v any) (string, error)
	// Deserialize decodes data into the value pointed to by v.
	Deserialize(data string, v any) error
}

// Decode deserializes data into a new T.
func Decode[T any](s Serializer, data string) (T, error) {
	var v T
	err := s.Deserialize(data, &v)
	return v, err
}

// JSONSerializer encodes payloads as path-escaped JSON.
type JSONSerializer struct{}

// Serialize encodes v.
func (JSONSerializer) Serialize(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return url.PathEscape(string(data)), nil
}

// Deserialize decodes data into v.
func (JSONSerializer) Deserialize(data string, v any) error {
	raw, err := url.PathUnescape(data)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

// MsgpackSerializer encodes payloads as unpadded URL-safe base64 MessagePack,
// which keeps routes short for large payloads.
type MsgpackSerializer struct{}

// Serialize encodes v.
func (MsgpackSerializer) Serialize(v any) (string, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Deserialize decodes data into v.
func (MsgpackSerializer) Deserialize(data string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(raw, v)
}
