package main

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

const defaultPort = 8080

type Config struct {
	Port int `validate:"gte=1,lte=65535"`
}

var validate = validator.New()

// Validate reports whether the configured port is usable.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// parsePort converts a raw port argument, rejecting non-numeric
// values and anything outside 1-65535. Callers fall back to
// defaultPort on error.
func parsePort(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("port %q: %w", raw, err)
	}
	if err := (Config{Port: n}).Validate(); err != nil {
		return 0, err
	}
	return n, nil
}
