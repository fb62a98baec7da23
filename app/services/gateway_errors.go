package services

import (
	"errors"
	"fmt"
	"net/http"
)

type GatewayErrorKind string

const (
	GatewayUnauthorized      GatewayErrorKind = "unauthorized"
	GatewayDeprecated        GatewayErrorKind = "deprecated"
	GatewayTransient         GatewayErrorKind = "transient"
	GatewayMalformedResponse GatewayErrorKind = "malformed_response"
)

// GatewayError classifies a failed RajaOngkir call so operators can tell a rejected
// key apart from an outage. Every kind still degrades to fallback pricing.
type GatewayError struct {
	Kind       GatewayErrorKind
	Op         string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("rajaongkir %s: %s (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("rajaongkir %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// errCallerGone marks a request abandoned because the caller's context ended.
// It is not a gateway failure and never reaches GatewayError classification.
var errCallerGone = errors.New("caller context done")

func kindForStatus(code int) GatewayErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return GatewayUnauthorized
	case http.StatusGone:
		return GatewayDeprecated
	default:
		return GatewayTransient
	}
}

func statusError(op string, code int, detail string) *GatewayError {
	return &GatewayError{
		Kind:       kindForStatus(code),
		Op:         op,
		StatusCode: code,
		Err:        errors.New(detail),
	}
}

func malformedError(op string, err error) *GatewayError {
	return &GatewayError{Kind: GatewayMalformedResponse, Op: op, Err: err}
}

func transientError(op string, err error) *GatewayError {
	return &GatewayError{Kind: GatewayTransient, Op: op, Err: err}
}

func asGatewayError(op string, err error) *GatewayError {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge
	}
	return transientError(op, err)
}
