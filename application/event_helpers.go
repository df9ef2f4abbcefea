package application

import (
	"fmt"
	"reflect"

	"fortuneblock/domain/events"
)

// AssertEventType safely asserts an event to a specific type with detailed error messages
func AssertEventType[T events.Event](event interface{}, expectedTypeName string) (T, error) {
	var zero T

	if e, ok := event.(T); ok {
		return e, nil
	}

	errMsg := fmt.Sprintf("event type assertion failed: expected %s, got %T", expectedTypeName, event)
	if e, ok := event.(events.Event); ok {
		errMsg += fmt.Sprintf(" (event.Type()=%s)", e.Type())
	}

	// Pointer events come back from decoders that allocate
	if v := reflect.ValueOf(event); v.Kind() == reflect.Ptr {
		if v.IsNil() {
			errMsg += " (event is nil)"
		} else {
			errMsg += fmt.Sprintf(" (pointer to %s)", v.Type().Elem())
		}
	}

	return zero, fmt.Errorf("%s", errMsg)
}
