package config

import "errors"

var errReadBytes = errors.New("config: map provider does not support ReadBytes")

// mapProvider feeds an in-memory nested map to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytes
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
