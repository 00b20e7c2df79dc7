package boletin

import (
	"errors"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	plain := errors.New("some error")

	if IsUnknownIncidentType(plain) {
		t.Error("plain error wrongly recognized as unknown incident type")
	}
	if !IsUnknownIncidentType(NewUnknownIncidentType("terremoto")) {
		t.Error("unknown incident type error not recognized")
	}

	if IsTemplateNotFound(plain) {
		t.Error("plain error wrongly recognized as template not found")
	}
	if !IsTemplateNotFound(NewTemplateNotFound("no template for %q", "asalto")) {
		t.Error("template not found error not recognized")
	}

	if !IsTemplateParseError(NewTemplateParseError("bad markup")) {
		t.Error("template parse error not recognized")
	}
	if !IsEmptyOutputError(NewEmptyOutputError("empty buffer")) {
		t.Error("empty output error not recognized")
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	err := NewUnknownIncidentType("x")
	if IsTemplateNotFound(err) || IsTemplateParseError(err) || IsEmptyOutputError(err) {
		t.Error("unknown incident type matched a different kind")
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(errors.New("inner"), "outer %v", 1)
	if err.Error() != "outer 1: inner" {
		t.Errorf("unexpected wrapped message: %q", err.Error())
	}
}
