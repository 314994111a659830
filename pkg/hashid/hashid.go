package hashid

import (
	"fmt"
	"strings"

	hashids "github.com/speps/go-hashids/v2"
)

// Type 一类对外ID：前缀 + 独立盐
type Type struct {
	prefix string
	codec  *hashids.HashID
}

func NewType(prefix, salt string, minLength int) *Type {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength

	codec, err := hashids.NewWithData(data)
	if err != nil {
		panic(err)
	}

	return &Type{prefix: prefix, codec: codec}
}

func Encode(t *Type, id uint) string {
	encoded, err := t.codec.EncodeInt64([]int64{int64(id)})
	if err != nil {
		return ""
	}
	return t.prefix + encoded
}

func Decode(t *Type, hashID string) (uint, error) {
	if !strings.HasPrefix(hashID, t.prefix) {
		return 0, fmt.Errorf("invalid hash id prefix: %s", hashID)
	}

	numbers, err := t.codec.DecodeInt64WithError(strings.TrimPrefix(hashID, t.prefix))
	if err != nil {
		return 0, err
	}
	if len(numbers) != 1 || numbers[0] < 0 {
		return 0, fmt.Errorf("invalid hash id: %s", hashID)
	}

	return uint(numbers[0]), nil
}
