package models

// MessageResponse is the standard response envelope. Domain outcomes such as
// "User already Exist" use this shape with a 200 status.
type MessageResponse struct {
	Message string `json:"Message"`
}

// DataResponse wraps a message together with a payload.
type DataResponse struct {
	Message string      `json:"Message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationResponse carries the first violated rule's message. The lowercase
// key is part of the external interface.
type ValidationResponse struct {
	Message string `json:"message"`
}
