package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/phrazzld/tasks-api/internal/apperr"
)

const (
	regionBody   = "Body"
	regionQuery  = "Query"
	regionParams = "Params"
)

// StructValidator implements Validator with go-playground/validator struct
// tags. It is safe for concurrent use.
type StructValidator struct {
	validate *validator.Validate
}

var _ Validator = (*StructValidator)(nil)

// NewStructValidator creates a StructValidator. Field paths are built from
// the json, query and param tags of the shape.
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &StructValidator{validate: v}
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "query", "param"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return strings.ToLower(fld.Name)
}

// Validate decodes every region present in shape and validates the result.
// shape must be a non-nil pointer to a struct. Decode problems and
// constraint violations from all regions are reported together, in the
// order they were found; a field that failed to decode is not reported a
// second time by its constraints.
func (s *StructValidator) Validate(shape any, in Input) error {
	rv := reflect.ValueOf(shape)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: shape must be a non-nil pointer to struct, got %T", shape)
	}
	sv := rv.Elem()

	out := &Errors{}
	failed := make(map[string]bool)
	fail := func(d apperr.Detail) {
		out.Items = append(out.Items, d)
		failed[d.Path] = true
	}

	if f := sv.FieldByName(regionBody); f.IsValid() {
		for _, d := range decodeBody(in.Body, f.Addr().Interface()) {
			fail(d)
		}
	}
	if f := sv.FieldByName(regionQuery); f.IsValid() {
		if err := decodeMap(firstValues(in.Query), "query", f.Addr().Interface()); err != nil {
			fail(apperr.Detail{Path: "query", Message: "query is invalid"})
		}
	}
	if f := sv.FieldByName(regionParams); f.IsValid() {
		params := make(map[string]any, len(in.Params))
		for k, v := range in.Params {
			params[k] = v
		}
		if err := decodeMap(params, "param", f.Addr().Interface()); err != nil {
			fail(apperr.Detail{Path: "params", Message: "params are invalid"})
		}
	}

	if err := s.validate.Struct(shape); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validation: %w", err)
		}

		var overrides map[string]string
		if m, ok := shape.(Messager); ok {
			overrides = m.ValidationMessages()
		}

		for _, fe := range fieldErrs {
			path := namespacePath(fe.Namespace())
			if covered(failed, path) {
				continue
			}
			msg, ok := overrides[path+"."+fe.Tag()]
			if !ok {
				msg = defaultMessage(fe)
			}
			out.Items = append(out.Items, apperr.Detail{Path: path, Message: msg})
		}
	}

	if len(out.Items) == 0 {
		return nil
	}
	return out
}

// covered reports whether path or one of its parents already has a decode
// violation.
func covered(failed map[string]bool, path string) bool {
	for {
		if failed[path] {
			return true
		}
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			return false
		}
		path = path[:i]
	}
}

// decodeBody unmarshals body into dst. encoding/json stops reporting after
// the first type mismatch, so on a mismatch every top-level field is decoded
// again on its own to find the rest.
func decodeBody(body []byte, dst any) []apperr.Detail {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	err := json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return []apperr.Detail{{Path: "body", Message: "body must be valid JSON"}}
	}
	if typeErr.Field == "" {
		return []apperr.Detail{{Path: "body", Message: "body must be a JSON object"}}
	}

	if details := decodeFields(body, dst); len(details) > 0 {
		return details
	}
	return []apperr.Detail{typeDetail("body", typeErr)}
}

func decodeFields(body []byte, dst any) []apperr.Detail {
	dv := reflect.ValueOf(dst).Elem()
	var raw map[string]json.RawMessage
	if dv.Kind() != reflect.Struct || json.Unmarshal(body, &raw) != nil {
		return nil
	}

	var details []apperr.Detail
	dt := dv.Type()
	for i := 0; i < dt.NumField(); i++ {
		sf := dt.Field(i)
		name := jsonName(sf)
		if !sf.IsExported() || sf.Anonymous || name == "" {
			continue
		}
		value, ok := lookupKey(raw, name)
		if !ok {
			continue
		}
		err := json.Unmarshal(value, dv.Field(i).Addr().Interface())
		var typeErr *json.UnmarshalTypeError
		switch {
		case err == nil:
		case errors.As(err, &typeErr):
			details = append(details, typeDetail("body."+name, typeErr))
		default:
			details = append(details, apperr.Detail{Path: "body." + name, Message: name + " is invalid"})
		}
	}
	return details
}

func typeDetail(prefix string, typeErr *json.UnmarshalTypeError) apperr.Detail {
	path := prefix
	if typeErr.Field != "" {
		path = prefix + "." + typeErr.Field
	}
	field := path[strings.LastIndexByte(path, '.')+1:]
	return apperr.Detail{
		Path:    path,
		Message: fmt.Sprintf("%s must be of type %s", field, jsonTypeName(typeErr.Type)),
	}
}

func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	}
	return name
}

// lookupKey matches keys the way encoding/json does: exact first, then
// case-insensitively.
func lookupKey(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := raw[name]; ok {
		return v, true
	}
	for k, v := range raw {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}

func decodeMap(src map[string]any, tag string, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tag,
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(src)
}

// firstValues keeps the first value of each repeated query key.
func firstValues(q map[string][]string) map[string]any {
	out := make(map[string]any, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

// namespacePath drops the shape's type name: "createTask.body.title" -> "body.title".
func namespacePath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
