package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// structTarget returns the struct v points to.
func structTarget(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: %T is not a non-nil pointer", ErrUnsupportedTarget, v)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %T does not point to a struct", ErrUnsupportedTarget, v)
	}
	return rv, nil
}

// bindValues sets the fields of the struct v points to from values, matching
// field names through tagName.
func bindValues(v any, tagName string, values map[string][]string, bindErr error) error {
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
		name, skip := fieldName(rt.Field(i), tagName)
		if skip {
			continue
		}
		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := setField(field, vals); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, rt.Field(i).Name, err)
		}
	}
	return nil
}

// fieldName resolves the request key for a struct field. Untagged fields use
// the lower-cased field name.
func fieldName(f reflect.StructField, tagName string) (string, bool) {
	tag := f.Tag.Get(tagName)
	switch tag {
	case "":
		return strings.ToLower(f.Name), false
	case "-":
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, name == ""
}

func setField(field reflect.Value, values []string) error {
	t := field.Type()

	if t.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setField(field.Elem(), values)
	}
	if t.Kind() == reflect.Slice {
		return setSlice(field, values)
	}
	if len(values) == 0 {
		return nil
	}

	s := values[0]
	switch t.Kind() {
	case reflect.String:
		field.SetString(sanitizeString(s))
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", s)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", s)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", s)
		}
		field.SetFloat(n)
	default:
		return fmt.Errorf("unsupported type %s", t)
	}
	return nil
}

// setSlice accepts both repeated keys and comma separated values.
func setSlice(field reflect.Value, values []string) error {
	var all []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			all = append(all, strings.TrimSpace(part))
		}
	}

	slice := reflect.MakeSlice(field.Type(), len(all), len(all))
	for i, v := range all {
		if err := setField(slice.Index(i), []string{v}); err != nil {
			return err
		}
	}
	field.Set(slice)
	return nil
}

func parseBool(s string) (bool, error) {
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", s)
}

// sanitizeString drops NUL bytes, line breaks and other control characters.
// Tabs are kept.
func sanitizeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == utf8.RuneError {
			continue
		}
		if r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
