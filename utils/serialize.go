package utils

import (
	"encoding/json"

	"github.com/juju/errors"
)

func Serialize(o any) ([]byte, error) {
	b, err := json.Marshal(o)
	return b, errors.Annotatef(err, "serialize %T", o)
}

func Unserialize(b []byte, o any) error {
	if len(b) == 0 {
		return errors.NotValidf("empty payload for %T", o)
	}
	return errors.Annotatef(json.Unmarshal(b, o), "unserialize %T", o)
}
