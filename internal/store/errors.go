package store

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrIncidentNotFound = errors.New("incident not found")
	ErrUnknownCommand   = errors.New("unknown command")
)
