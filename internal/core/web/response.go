// Package web holds the uniform JSON response envelope shared by all
// HTTP handlers.
package web

import "github.com/gofiber/fiber/v2"

// Response is the envelope every handler returns.
type Response struct {
	// Success reports whether the request was handled without error.
	Success bool `json:"success"`
	// Data carries the handler-specific payload when Success is true.
	Data interface{} `json:"data,omitempty"`
	// Error is a short error description when Success is false.
	Error string `json:"error,omitempty"`
	// Message is an optional informational message.
	Message string `json:"message,omitempty"`
}

// OK writes a 200 response with the given payload.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Response{Success: true, Data: data})
}

// Msg writes a 200 response with only an informational message.
func Msg(c *fiber.Ctx, message string) error {
	return c.JSON(Response{Success: true, Message: message})
}

// Fail writes an error response with the given status code.
func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Response{Success: false, Error: msg})
}
