package gobigquery

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	var e error
	e = &ConversionError{
		Number:  1,
		Message: "test message",
	}
	if !strings.Contains(e.Error(), "test message") {
		t.Errorf("failed to format error. %v", e)
	}
	e = &ConversionError{
		Number:      1,
		Message:     "test message: %v, %v",
		MessageArgs: []interface{}{"C1", "C2"},
	}
	if !strings.Contains(e.Error(), "test message: C1, C2") {
		t.Errorf("failed to format error. %v", e)
	}
	e = &ConversionError{
		Number:  ErrCodeCellShape,
		Message: "bad cell",
		Path:    "cities[2].name",
	}
	assertEqualE(t, e.Error(), "272002: bad cell (at cities[2].name)")
}

func TestErrorIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrCannotInferNil.withPath("ids[0]"))
	assertErrIsE(t, err, ErrCannotInferNil)
	assertFalseE(t, errors.Is(err, ErrEmptyArrayNoType))
}

func TestErrorCategories(t *testing.T) {
	testcases := []struct {
		err       error
		inference bool
		format    bool
		structure bool
	}{
		{ErrCannotInferNil, true, false, false},
		{ErrEmptyArrayNoType, true, false, false},
		{errInvalidScalar(DataTypeDate, "nope", nil), false, true, false},
		{ErrDecimalOutOfRange, false, true, false},
		{ErrTooManyCells, false, false, true},
		{errors.New("plain"), false, false, false},
	}
	for _, tc := range testcases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assertEqualE(t, IsInferenceError(tc.err), tc.inference)
			assertEqualE(t, IsFormatError(tc.err), tc.format)
			assertEqualE(t, IsStructureMismatch(tc.err), tc.structure)
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := errInvalidScalar(DataTypeInt64, "x", cause)
	assertErrIsE(t, err, cause)
	assertStringContainsE(t, err.Error(), "root cause")
}
