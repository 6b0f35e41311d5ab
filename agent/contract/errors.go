package contract

import "errors"

var (
	ErrOracle          = errors.New("oracle invoke failed")
	ErrSchemaViolation = errors.New("oracle response violates schema")
	ErrValidation      = errors.New("validation failed")
)
