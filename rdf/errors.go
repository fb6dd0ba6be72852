package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeSyntax indicates a grammar violation in the input.
	ErrCodeSyntax ErrorCode = "SYNTAX_ERROR"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInvalidIRI indicates an invalid IRI was encountered.
	ErrCodeInvalidIRI ErrorCode = "INVALID_IRI"
	// ErrCodeProtocolViolation indicates the serializer was driven out of order.
	ErrCodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"
	// ErrCodeUnrepresentable indicates a term that the output syntax cannot carry.
	ErrCodeUnrepresentable ErrorCode = "UNREPRESENTABLE"
	// ErrCodeInvalidConfig indicates invalid serializer configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeUnknown is returned for errors that do not originate in this package.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var (
	// ErrSyntax marks grammar violations. Syntax errors are always wrapped in a *ParseError.
	ErrSyntax = errors.New("syntax error")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of triples exceeded")
	// ErrInvalidIRI indicates an IRI rejected by strict validation.
	ErrInvalidIRI = errors.New("rdf: invalid IRI")
	// ErrUnbalancedClose indicates a close was requested with no open element.
	ErrUnbalancedClose = errors.New("rdfxml: close when no open element is available")
	// ErrInvalidQName indicates an IRI that cannot be written as an element name.
	ErrInvalidQName = errors.New("rdfxml: IRI cannot be abbreviated to an element name")
	// ErrInvalidXMLChar indicates a value containing characters XML 1.0 cannot represent.
	ErrInvalidXMLChar = errors.New("rdfxml: value contains a character not allowed in XML")
	// ErrInvalidPrefix indicates a namespace prefix that cannot be declared.
	ErrInvalidPrefix = errors.New("rdfxml: invalid namespace prefix")
	// ErrEncoderClosed is returned by writes after Close.
	ErrEncoderClosed = errors.New("rdf: encoder closed")
)

// Code returns the error code for an error.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrTripleLimitExceeded):
		return ErrCodeTripleLimitExceeded
	case errors.Is(err, ErrInvalidIRI):
		return ErrCodeInvalidIRI
	case errors.Is(err, ErrSyntax):
		return ErrCodeSyntax
	case errors.Is(err, ErrUnbalancedClose), errors.Is(err, ErrEncoderClosed):
		return ErrCodeProtocolViolation
	case errors.Is(err, ErrInvalidQName), errors.Is(err, ErrInvalidXMLChar):
		return ErrCodeUnrepresentable
	case errors.Is(err, ErrInvalidPrefix):
		return ErrCodeInvalidConfig
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return ErrCodeIOError
	}
	return ErrCodeUnknown
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name, "ntriples"
	Statement string // Offending line
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based byte column (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if excerpt := e.formatExcerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}

	return msg.String()
}

// formatExcerpt formats a readable excerpt of the statement around the error position.
func (e *ParseError) formatExcerpt() string {
	statement := strings.TrimRight(e.Statement, "\r\n")
	if statement == "" {
		return ""
	}

	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column > 0 {
		start := e.Column - 1
		if start > len(statement) {
			start = len(statement)
		}

		excerptStart := start - contextLen
		if excerptStart < 0 {
			excerptStart = 0
		}
		excerptEnd := start + contextLen
		if excerptEnd > len(statement) {
			excerptEnd = len(statement)
		}

		excerpt := statement[excerptStart:excerptEnd]
		caretPos := start - excerptStart
		if excerptStart > 0 {
			excerpt = "..." + excerpt
			caretPos += 3
		}
		if excerptEnd < len(statement) {
			excerpt += "..."
		}

		var result strings.Builder
		result.WriteString(excerpt)
		result.WriteString("\n  ")
		result.WriteString(strings.Repeat(" ", caretPos))
		result.WriteByte('^')
		return result.String()
	}

	if len(statement) > maxExcerptLen {
		return statement[:maxExcerptLen] + "..."
	}
	return statement
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError wraps a failure of the underlying reader or writer.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string { return "rdf: " + e.Op + ": " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

func readError(err error) error {
	return &IOError{Op: "read", Err: err}
}

func writeError(err error) error {
	return &IOError{Op: "write", Err: err}
}
