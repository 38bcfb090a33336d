package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrContractNotFound signals a missing contract.
	ErrContractNotFound = errors.New("contract not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnsupportedFormat signals an upload with an extension the pipeline cannot process.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrTextUnavailable signals that a contract's raw text could not be read from storage.
	ErrTextUnavailable = errors.New("contract text unavailable")
	// ErrAcquisitionFailed signals a text acquisition (OCR) failure.
	ErrAcquisitionFailed = errors.New("text acquisition failed")
	// ErrInvalidInput signals a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
)
