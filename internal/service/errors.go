package service

import (
	"errors"

	"github.com/dogclock/api/internal/models"
)

// Service errors. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound            = models.ErrNotFound
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
