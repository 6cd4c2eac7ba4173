package validation

import (
	"fmt"

	"formbind/primitive"
)

// Message keys reported by the form layer.
const (
	KeyParsePrefix    = "validation.parse."
	KeySizeExceeded   = "validation.request.size_exceeded"
	KeyRequestFailed  = "validation.request.failed"
	KeyTooManyRows    = "validation.list.too_many"
	KeyObject         = "validation.object"
	KeyConstraintBase = "validation."
)

// ParseMessage is the message of a value that could not be converted to a property of the given category.
func ParseMessage(c primitive.Category) Message {
	name := c.Name()

	return Message{Key: KeyParsePrefix + name, Text: "must be a valid " + name}
}

// SizeExceededMessage reports a request body over the upload limit.
func SizeExceededMessage() Message {
	return Message{Key: KeySizeExceeded, Text: "request exceeds the maximum upload size"}
}

// RequestFailedMessage reports a request that could not be read.
func RequestFailedMessage(err error) Message {
	return Message{Key: KeyRequestFailed, Text: "request could not be read: " + err.Error()}
}

// TooManyRowsMessage reports list indices dropped above max.
func TooManyRowsMessage(path string, max int) Message {
	return Message{Key: KeyTooManyRows, Text: fmt.Sprintf("%s holds more than %d rows", path, max+1)}
}

// ObjectMessage wraps an error returned by an object's own Validate method.
func ObjectMessage(err error) Message {
	return Message{Key: KeyObject, Text: err.Error()}
}
