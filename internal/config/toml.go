package config

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// unmarshalTOML decodes TOML data over cfg, wrapping parse failures
// in a ParseError with position information where available.
func unmarshalTOML(data []byte, cfg *Config) error {
	err := toml.Unmarshal(data, cfg)
	if err == nil {
		return nil
	}
	pe := &ParseError{Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		pe.Line = row
		pe.Column = col
	}
	return pe
}
