package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "no bundler config")
		if err.Error() != "[NOT_FOUND] no bundler config" {
			t.Errorf("expected [NOT_FOUND] no bundler config, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		err := Wrap(cause, CodeValidationError, "parse webpack config")
		expected := "[VALIDATION_ERROR] parse webpack config: unexpected EOF"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("expected wrapped error to unwrap to its cause")
		}
	})

	t.Run("ContextIsSorted", func(t *testing.T) {
		err := New(CodeNotSupported, "unknown config format").
			WithContext(CtxPath, "/p/webpack.config.ini").
			WithContext(CtxFormat, ".ini")
		expected := "[NOT_SUPPORTED] unknown config format (format=.ini path=/p/webpack.config.ini)"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := error(New(CodeValidationError, "invalid input"))
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("load: %w", New(CodeNotFound, "missing"))
		if !IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeNotFound, "missing"), CtxPath, "/src/a.js")
		var de *DomainError
		if !errors.As(err, &de) || de.Context[CtxPath] != "/src/a.js" {
			t.Errorf("expected path context on domain error, got %v", err)
		}

		foreign := AddContext(errors.New("boom"), CtxDependency, "lib/x")
		if !IsCode(foreign, CodeInternal) {
			t.Errorf("expected foreign error to be wrapped as INTERNAL_ERROR, got %v", foreign)
		}
	})
}
