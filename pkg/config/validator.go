package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validate checks a configuration document against the JSON schema
func Validate(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	return nil
}

// validateRequired reports the first required field that is empty, in the
// order host, username, path.
func validateRequired(cfg *Config) (string, bool) {
	switch {
	case cfg.Host == "":
		return "host", false
	case cfg.Username == "":
		return "username", false
	case cfg.Path == "":
		return "path", false
	}
	return "", true
}
