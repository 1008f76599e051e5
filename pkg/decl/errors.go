// SPDX-License-Identifier: MPL-2.0

package decl

import "fmt"

// Declaration error codes.
const (
	CodeInvalidArgumentSyntax  Code = "INVALID_ARGUMENT_SYNTAX"
	CodeInvalidArgumentName    Code = "INVALID_ARGUMENT_NAME"
	CodeInvalidOptionSyntax    Code = "INVALID_OPTION_SYNTAX"
	CodeInvalidCommandName     Code = "INVALID_COMMAND_NAME"
	CodeDuplicateCommand       Code = "DUPLICATE_COMMAND"
	CodeInvalidAlias           Code = "INVALID_ALIAS"
	CodeDuplicateAlias         Code = "DUPLICATE_ALIAS"
	CodeNoActiveCommand        Code = "NO_ACTIVE_COMMAND"
	CodeAliasInGlobalMode      Code = "ALIAS_IN_GLOBAL_MODE"
	CodeDuplicateArgument      Code = "DUPLICATE_ARGUMENT"
	CodeDuplicateOption        Code = "DUPLICATE_OPTION"
	CodeRestNotLast            Code = "REST_NOT_LAST"
	CodeRequiredAfterOptional  Code = "REQUIRED_AFTER_OPTIONAL"
	CodeRequiredWithDefault    Code = "REQUIRED_WITH_DEFAULT"
	CodeInvalidAttribute       Code = "INVALID_ATTRIBUTE"
	CodeInvalidEvent           Code = "INVALID_EVENT"
	CodeInvalidDefault         Code = "INVALID_DEFAULT"
	CodeNilHandler             Code = "NIL_HANDLER"
	CodeUnknownValidator       Code = "UNKNOWN_VALIDATOR"
)

type (
	// Code is the stable machine-readable prefix of a declaration error.
	Code string

	// DeclarationError reports a programmer mistake made while declaring commands.
	DeclarationError struct {
		Code Code
		// Subject is the offending syntax string or name, verbatim.
		Subject string
		Reason  string
	}
)

// NewDeclarationError builds a DeclarationError with a formatted reason.
func NewDeclarationError(code Code, subject, format string, args ...any) *DeclarationError {
	return &DeclarationError{Code: code, Subject: subject, Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	return string(e.Code) + ": " + e.Reason
}

// Is matches another *DeclarationError carrying the same code.
func (e *DeclarationError) Is(target error) bool {
	t, ok := target.(*DeclarationError)
	return ok && t.Code == e.Code
}
