package util

import (
	"fmt"
	"reflect"
)

// IsStructInitialized reports whether every exported field of the struct
// pointed to by s is set. Fields tagged `wire:"-"` are skipped.
func IsStructInitialized(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected a struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("wire") == "-" {
			continue
		}

		if v.Field(i).IsZero() {
			return fmt.Errorf("field %s is not initialized", field.Name)
		}
	}

	return nil
}

func typeName(v any) string {
	return reflect.TypeOf(v).String()
}
