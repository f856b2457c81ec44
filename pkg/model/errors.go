package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedShape は配列の形状が受け付けられないとき
	ErrUnsupportedShape = errors.New("unsupported array shape")

	// ErrMissingField は必須フィールドが無いとき
	ErrMissingField = errors.New("missing required field")

	// ErrAmbiguousSidedness は複数軌跡なのに is_right が無いとき
	ErrAmbiguousSidedness = errors.New("hand sidedness is ambiguous")
)

type ShapeError struct {
	Field  string
	Shape  []int
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unsupported %s shape %s", e.Field, FormatShape(e.Shape))
	}
	return fmt.Sprintf("unsupported %s shape %s: %s", e.Field, FormatShape(e.Shape), e.Reason)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

func NewShapeError(field string, shape []int, reason string) error {
	return &ShapeError{Field: field, Shape: append([]int(nil), shape...), Reason: reason}
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
