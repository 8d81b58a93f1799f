// Package http holds the shared HTTP plumbing: request decoding, validation
// and the error-to-status mapping used by every handler.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/feastly/draw-engine/pkg"
)

// ErrorResponse is the wire shape of every non-2xx response.
type ErrorResponse struct {
	Code    string            `json:"code,omitempty"`
	Title   string            `json:"title,omitempty"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WithError maps a typed business error onto its HTTP status and body.
// Unrecognised errors are masked as a generic 500 so internals never leak.
func WithError(c *fiber.Ctx, err error) error {
	var (
		notFound      pkg.EntityNotFoundError
		validation    pkg.ValidationError
		unprocessable pkg.UnprocessableOperationError
		precondition  pkg.FailedPreconditionError
		lockTimeout   pkg.LockTimeoutError
		internal      pkg.InternalServerError
	)

	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Code: notFound.Code, Title: notFound.Title, Message: notFound.Message,
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Code: validation.Code, Title: validation.Title, Message: validation.Message, Fields: validation.Fields,
		})
	case errors.As(err, &precondition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code: precondition.Code, Title: precondition.Title, Message: precondition.Message,
		})
	case errors.As(err, &unprocessable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code: unprocessable.Code, Title: unprocessable.Title, Message: unprocessable.Message,
		})
	case errors.As(err, &lockTimeout):
		return c.Status(fiber.StatusLocked).JSON(ErrorResponse{
			Code: lockTimeout.Code, Title: lockTimeout.Title, Message: lockTimeout.Message,
		})
	case errors.As(err, &internal):
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Code: internal.Code, Title: internal.Title, Message: internal.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Title:   "Internal Server Error",
		Message: "The server encountered an unexpected condition.",
	})
}

// OK writes a 200 with the given body.
func OK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

// Created writes a 201 with the given body.
func Created(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}
