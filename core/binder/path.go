package binder

import (
	"fmt"
	"net/http"
)

// Path binds path parameters to struct fields tagged `path:"name"`.
// extractor looks a parameter up by name; an empty result leaves the field
// untouched.
func Path(extractor func(r *http.Request, name string) string) Binder {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: nil extractor", ErrFailedToParsePath)
		}
		rv, err := structTarget(v)
		if err != nil {
			return err
		}
		rt := rv.Type()

		for i := range rv.NumField() {
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}
			name, skip := fieldName(rt.Field(i), "path")
			if skip {
				continue
			}
			value := extractor(r, name)
			if value == "" {
				continue
			}
			if err := setField(field, []string{value}); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrFailedToParsePath, rt.Field(i).Name, err)
			}
		}
		return nil
	}
}
