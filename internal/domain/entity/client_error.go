package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ClientError.
type ErrorKind int

const (
	// ConfigError signals a malformed built-in or configured constant.
	ConfigError ErrorKind = iota + 1
	// ArgumentError signals a missing or malformed command-line argument.
	ArgumentError
	// AmountParseError signals a bad decimal amount or unit name.
	AmountParseError
	// TransactionError signals a failure while filling, signing, sending or awaiting a transaction.
	TransactionError
	// ContractCallError signals a failed read-only call or undecodable return data.
	ContractCallError
)

var kindNames = map[ErrorKind]string{
	ConfigError:       "config error",
	ArgumentError:     "argument error",
	AmountParseError:  "amount parse error",
	TransactionError:  "transaction error",
	ContractCallError: "contract call error",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown error"
}

// ExitCode is the process exit status reported for this kind of error.
func (k ErrorKind) ExitCode() int {
	switch k {
	case ConfigError:
		return 2
	case ArgumentError:
		return 3
	case AmountParseError:
		return 4
	case TransactionError:
		return 5
	case ContractCallError:
		return 6
	default:
		return 1
	}
}

// ClientError is the error returned by every operation of the client.
// Op names the step or method that failed, e.g. "send approve" or "balanceOf".
type ClientError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewClientError wraps err into a ClientError of the given kind.
func NewClientError(kind ErrorKind, op string, err error) *ClientError {
	return &ClientError{Kind: kind, Op: op, Err: err}
}

func (e *ClientError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Op, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a ClientError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Kind == kind
}

// ExitCodeOf maps any error to a process exit status.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind.ExitCode()
	}
	return 1
}
