package boletin

import (
	"fmt"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %v", msg, err)
}

type unknownIncidentType struct {
	message string
}

// NewUnknownIncidentType creates the error returned when a caller supplies
// an incident type outside the supported set. It is a client error.
func NewUnknownIncidentType(tipo string) error {
	return unknownIncidentType{fmt.Sprintf("unknown incident type: %q", tipo)}
}

func (u unknownIncidentType) Error() string {
	return u.message
}

// IsUnknownIncidentType checks if the given error is an "unknown incident type" error.
func IsUnknownIncidentType(err error) bool {
	_, ok := err.(unknownIncidentType)
	return ok
}

type templateNotFound struct {
	message string
}

// NewTemplateNotFound creates the error returned when neither the enhanced
// nor the legacy template file exists for a valid incident type.
// This indicates a deployment defect, not bad caller input.
func NewTemplateNotFound(s string, v ...interface{}) error {
	return templateNotFound{fmt.Sprintf("template not found: %v", fmt.Sprintf(s, v...))}
}

func (t templateNotFound) Error() string {
	return t.message
}

// IsTemplateNotFound checks if the given error is a "template not found" error.
func IsTemplateNotFound(err error) bool {
	_, ok := err.(templateNotFound)
	return ok
}

type templateParseError struct {
	message string
}

// NewTemplateParseError creates the error returned when a substituted
// document cannot be parsed into a drawable graphic.
func NewTemplateParseError(s string, v ...interface{}) error {
	return templateParseError{fmt.Sprintf("template parse error: %v", fmt.Sprintf(s, v...))}
}

func (t templateParseError) Error() string {
	return t.message
}

// IsTemplateParseError checks if the given error is a "template parse" error.
func IsTemplateParseError(err error) bool {
	_, ok := err.(templateParseError)
	return ok
}

type emptyOutputError struct {
	message string
}

// NewEmptyOutputError creates the error returned when a rasterization
// backend produced an empty byte buffer.
func NewEmptyOutputError(s string, v ...interface{}) error {
	return emptyOutputError{fmt.Sprintf("empty output: %v", fmt.Sprintf(s, v...))}
}

func (e emptyOutputError) Error() string {
	return e.message
}

// IsEmptyOutputError checks if the given error is an "empty output" error.
func IsEmptyOutputError(err error) bool {
	_, ok := err.(emptyOutputError)
	return ok
}
