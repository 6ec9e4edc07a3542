package core

// # Error Codes Reference
//
// This file maps technical errors to user-facing messages with codes for
// support reference. Users quote the code; support looks it up here.
//
// Errors are first classified by kind (errors.Is against the apperr
// sentinels), then by message pattern for errors that carry no kind.
//
// # Document Errors (DOC001-DOC099)
//
//	DOC001 - Invalid document: The stored file is not a readable spreadsheet
//	         Action: Restore the spreadsheet from a backup or re-upload it
//	         Kind: apperr.ErrFormat
//
// # Transport Errors (IO001-IO099)
//
//	IO001 - Storage unreachable: The document could not be read or saved
//	        Action: Check the connection and storage token, then try again
//	        Kind: apperr.ErrIO
//
// # Lookup Errors (NF001-NF099)
//
//	NF001 - Not found: The supplier or document does not exist
//	        Action: Refresh the list and try again
//	        Kind: apperr.ErrNotFound
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid data: Some fields are missing or malformed
//	         Action: Correct the highlighted fields
//	         Kind: apperr.ErrValidation
//
//	VAL002 - Invalid number: A quantity or price could not be read
//	         Action: Use digits with a comma or dot as decimal separator
//	         Patterns: "invalid number"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - File too large: The document exceeds the upload size limit
//	         Action: Remove unused sheets or raise UPLOAD_MAX_FILE_SIZE
//	         Patterns: "request body too large", "file too large"
//
//	UPL002 - System busy: Too many uploads in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many uploads"
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Check your connection and try again
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins. When a user reports ERR000, check the application logs for
// the original error.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

// errorKind maps an error sentinel to its user message.
type errorKind struct {
	target error
	msg    UserMessage
}

// errorPattern maps a message fragment to its user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorKinds = []errorKind{
	{
		target: apperr.ErrFormat,
		msg: UserMessage{
			Message: "The stored file is not a readable spreadsheet",
			Action:  "Restore the spreadsheet from a backup or re-upload it",
			Code:    "DOC001",
		},
	},
	{
		target: apperr.ErrIO,
		msg: UserMessage{
			Message: "The document could not be read or saved",
			Action:  "Check the connection and storage token, then try again",
			Code:    "IO001",
		},
	},
	{
		target: apperr.ErrNotFound,
		msg: UserMessage{
			Message: "The requested record does not exist",
			Action:  "Refresh the list and try again",
			Code:    "NF001",
		},
	},
	{
		target: apperr.ErrValidation,
		msg: UserMessage{
			Message: "Some fields are missing or malformed",
			Action:  "Correct the highlighted fields",
			Code:    "VAL001",
		},
	},
	{
		target: ErrTooManyUploads,
		msg:    busyMessage,
	},
}

var busyMessage = UserMessage{
	Message: "System is busy processing other uploads",
	Action:  "Please wait a moment and try again",
	Code:    "UPL002",
}

var errorPatterns = []errorPattern{
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "A quantity or price could not be read",
			Action:  "Use digits with a comma or dot as decimal separator",
			Code:    "VAL002",
		},
	},
	{
		pattern: "request body too large",
		msg:     tooLargeMessage,
	},
	{
		pattern: "file too large",
		msg:     tooLargeMessage,
	},
	{
		pattern: "too many uploads",
		msg:     busyMessage,
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg:     timeoutMessage,
	},
	{
		pattern: "timeout",
		msg:     timeoutMessage,
	},
}

var tooLargeMessage = UserMessage{
	Message: "The document exceeds the upload size limit",
	Action:  "Remove unused sheets or raise UPLOAD_MAX_FILE_SIZE",
	Code:    "UPL001",
}

var timeoutMessage = UserMessage{
	Message: "Request timed out",
	Action:  "Check your connection and try again",
	Code:    "UPL005",
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Error
// kinds take precedence over message patterns.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
