package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/fulmenhq/gofulmen/schema"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Validation error types reported in FieldError.Type.
const (
	ErrTypeMissing        = "missing"
	ErrTypeModel          = "model_type"
	ErrTypeString         = "string_type"
	ErrTypeStringTooShort = "string_too_short"
	ErrTypeStringTooLong  = "string_too_long"
	ErrTypeEnum           = "enum"
	ErrTypeInt            = "int_type"
	ErrTypeIntFromFloat   = "int_from_float"
	ErrTypeGreaterOrEqual = "greater_than_equal"
	ErrTypeLessOrEqual    = "less_than_equal"
	ErrTypeBool           = "bool_type"
	ErrTypeList           = "list_type"
	ErrTypeListTooLong    = "too_long"
	ErrTypeJSONInvalid    = "json_invalid"
	ErrTypeYAMLInvalid    = "yaml_invalid"
)

// FieldError describes one violated constraint.
type FieldError struct {
	Loc     []any  `json:"loc" yaml:"loc"`
	Field   string `json:"field" yaml:"field"`
	Type    string `json:"type" yaml:"type"`
	Message string `json:"msg" yaml:"msg"`
	Input   any    `json:"input" yaml:"input"`
}

// ValidationError collects every field violation found in a payload.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		field := fe.Field
		if field == "" {
			field = "(body)"
		}
		parts = append(parts, field+": "+fe.Message)
	}
	noun := "errors"
	if len(e.Errors) == 1 {
		noun = "error"
	}
	return fmt.Sprintf("%d validation %s: %s", len(e.Errors), noun, strings.Join(parts, "; "))
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) && verr != nil {
		return verr, true
	}
	return nil, false
}

// ValidateJSON decodes a JSON document and validates it.
func ValidateJSON(data []byte) (*GenerateRequest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, documentError(ErrTypeJSONInvalid, "Invalid JSON: "+err.Error())
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, documentError(ErrTypeJSONInvalid, "Invalid JSON: unexpected data after top-level value")
	}
	return Validate(payload)
}

// ValidateYAML decodes a YAML document and validates it.
func ValidateYAML(data []byte) (*GenerateRequest, error) {
	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, documentError(ErrTypeYAMLInvalid, "Invalid YAML: "+err.Error())
	}
	return Validate(payload)
}

func documentError(errType, msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{
		Loc:     []any{},
		Type:    errType,
		Message: msg,
	}}}
}

// Validate checks an untyped payload (as produced by encoding/json or yaml.v3)
// against the request schema. All independent violations are reported together.
func Validate(payload any) (*GenerateRequest, error) {
	doc, err := canonicalize(payload)
	if err != nil {
		return nil, documentError(ErrTypeJSONInvalid, "Input is not representable as JSON: "+err.Error())
	}

	rv, err := loadRequestValidator()
	if err != nil {
		return nil, err
	}
	diagnostics, err := rv.validator.ValidateData(doc)
	if err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	if errs := rv.fieldErrors(doc, diagnostics); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return decodeRequest(doc)
}

// requestValidator pairs the compiled request schema with the reflected
// document it was built from; diagnostics are explained against the latter.
type requestValidator struct {
	validator *schema.Validator
	root      *jsonschema.Schema
	rank      map[string]int
}

var (
	requestValidatorOnce sync.Once
	requestValidatorInst *requestValidator
	requestValidatorErr  error
)

func loadRequestValidator() (*requestValidator, error) {
	requestValidatorOnce.Do(func() {
		root := RequestSchema()
		data, err := json.Marshal(root)
		if err != nil {
			requestValidatorErr = fmt.Errorf("encode request schema: %w", err)
			return
		}
		v, err := schema.NewValidator(data)
		if err != nil {
			requestValidatorErr = fmt.Errorf("compile request schema: %w", err)
			return
		}
		rank := make(map[string]int)
		rankFields(root, "", rank)
		requestValidatorInst = &requestValidator{validator: v, root: root, rank: rank}
	})
	return requestValidatorInst, requestValidatorErr
}

// rankFields numbers properties in declaration order, parents before children.
func rankFields(s *jsonschema.Schema, prefix string, rank map[string]int) {
	if s == nil || s.Properties == nil {
		return
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		path := pair.Key
		if prefix != "" {
			path = prefix + "." + pair.Key
		}
		rank[path] = len(rank)
		rankFields(pair.Value, path, rank)
	}
}

func (rv *requestValidator) fieldErrors(doc any, diagnostics []schema.Diagnostic) []FieldError {
	var errs []FieldError
	seen := make(map[string]bool)
	add := func(fe FieldError) {
		key := fe.Field + "\x00" + fe.Type
		if seen[key] {
			return
		}
		seen[key] = true
		errs = append(errs, fe)
	}

	for _, d := range diagnostics {
		if d.Severity != schema.SeverityError {
			continue
		}
		segs := splitPointer(d.Keyword)
		if len(segs) == 0 {
			continue
		}
		keyword := segs[len(segs)-1]
		if len(segs) >= 2 && segs[len(segs)-2] == "properties" {
			continue
		}
		node := schemaAt(rv.root, segs[:len(segs)-1])
		if node == nil || node.Type == "null" {
			continue
		}
		at := instanceLoc(doc, d.Pointer)

		if keyword == "required" {
			obj, _ := valueAt(doc, at).(map[string]any)
			for _, name := range node.Required {
				if _, ok := obj[name]; !ok {
					add(newFieldError(at.child(name), ErrTypeMissing, "Field required", nil))
				}
			}
			continue
		}

		input := valueAt(doc, at)
		errType, msg, ok := describe(keyword, node, input)
		if !ok {
			continue
		}
		add(newFieldError(at, errType, msg, input))
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return rv.less(errs[i].Loc, errs[j].Loc)
	})
	return errs
}

// less orders locations by field declaration, then list index.
func (rv *requestValidator) less(a, b []any) bool {
	var pathA, pathB string
	for i := 0; i < len(a) && i < len(b); i++ {
		pathA, pathB = extendPath(pathA, a[i]), extendPath(pathB, b[i])
		if ka, ok := a[i].(string); ok {
			if kb, ok := b[i].(string); ok && ka != kb {
				return rv.rank[pathA] < rv.rank[pathB]
			}
			continue
		}
		ia, _ := a[i].(int)
		ib, _ := b[i].(int)
		if ia != ib {
			return ia < ib
		}
	}
	return len(a) < len(b)
}

func extendPath(path string, part any) string {
	key, ok := part.(string)
	if !ok {
		return path
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

// describe maps a failed schema keyword onto an error type and message.
func describe(keyword string, node *jsonschema.Schema, input any) (string, string, bool) {
	switch keyword {
	case "type":
		if len(node.Enum) > 0 {
			return ErrTypeEnum, "Input should be " + enumList(node.Enum), true
		}
		return typeError(node.Type, input)
	case "enum":
		return ErrTypeEnum, "Input should be " + enumList(node.Enum), true
	case "minLength":
		n := uintValue(node.MinLength)
		return ErrTypeStringTooShort, fmt.Sprintf("String should have at least %d %s", n, plural(n, "character")), true
	case "maxLength":
		n := uintValue(node.MaxLength)
		return ErrTypeStringTooLong, fmt.Sprintf("String should have at most %d %s", n, plural(n, "character")), true
	case "minimum":
		return ErrTypeGreaterOrEqual, "Input should be greater than or equal to " + node.Minimum.String(), true
	case "maximum":
		return ErrTypeLessOrEqual, "Input should be less than or equal to " + node.Maximum.String(), true
	case "maxItems":
		items, _ := input.([]any)
		return ErrTypeListTooLong, fmt.Sprintf("List should have at most %d items after validation, not %d",
			uintValue(node.MaxItems), len(items)), true
	default:
		return "", "", false
	}
}

func typeError(expected string, input any) (string, string, bool) {
	switch expected {
	case "string":
		return ErrTypeString, "Input should be a valid string", true
	case "object":
		return ErrTypeModel, "Input should be a valid object", true
	case "array":
		return ErrTypeList, "Input should be a valid list", true
	case "boolean":
		return ErrTypeBool, "Input should be a valid boolean", true
	case "integer":
		if _, ok := input.(json.Number); ok {
			return ErrTypeIntFromFloat, "Input should be a valid integer, got a number with a fractional part", true
		}
		return ErrTypeInt, "Input should be a valid integer", true
	default:
		return "", "", false
	}
}

func newFieldError(at loc, errType, msg string, input any) FieldError {
	return FieldError{
		Loc:     append([]any{}, at...),
		Field:   at.String(),
		Type:    errType,
		Message: msg,
		Input:   input,
	}
}

// schemaAt follows a keyword location through the reflected schema.
func schemaAt(s *jsonschema.Schema, segs []string) *jsonschema.Schema {
	for i := 0; s != nil && i < len(segs); i++ {
		switch segs[i] {
		case "properties":
			if i+1 >= len(segs) || s.Properties == nil {
				return nil
			}
			i++
			s, _ = s.Properties.Get(segs[i])
		case "items":
			s = s.Items
		case "oneOf", "anyOf":
			if i+1 >= len(segs) {
				return nil
			}
			branches := s.OneOf
			if segs[i] == "anyOf" {
				branches = s.AnyOf
			}
			i++
			idx, err := strconv.Atoi(segs[i])
			if err != nil || idx < 0 || idx >= len(branches) {
				return nil
			}
			s = branches[idx]
		default:
			return nil
		}
	}
	return s
}

func splitPointer(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return parts
}

// instanceLoc converts a JSON pointer into a location, using list indices
// where the document holds a list.
func instanceLoc(doc any, ptr string) loc {
	at := loc{}
	cur := doc
	for _, part := range splitPointer(ptr) {
		switch node := cur.(type) {
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return at.child(part)
			}
			at = at.child(idx)
			cur = node[idx]
		case map[string]any:
			at = at.child(part)
			cur = node[part]
		default:
			at = at.child(part)
			cur = nil
		}
	}
	return at
}

func valueAt(doc any, at loc) any {
	cur := doc
	for _, part := range at {
		switch key := part.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = obj[key]
		case int:
			items, ok := cur.([]any)
			if !ok || key >= len(items) {
				return nil
			}
			cur = items[key]
		}
	}
	return cur
}

// canonicalize turns any decoded payload into the shape encoding/json
// produces with UseNumber. Integral numbers are rewritten without a
// fractional part so 3.0 validates and decodes as an integer.
func canonicalize(payload any) (any, error) {
	data, err := json.Marshal(stringKeys(payload))
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return integralNumbers(doc), nil
}

// stringKeys converts the map[any]any values yaml.v3 can produce.
func stringKeys(v any) any {
	switch node := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(node))
		for k, val := range node {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, val := range node {
			out[k] = stringKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, val := range node {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}

func integralNumbers(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, val := range node {
			node[k] = integralNumbers(val)
		}
	case []any:
		for i, val := range node {
			node[i] = integralNumbers(val)
		}
	case json.Number:
		if _, err := node.Int64(); err == nil {
			return node
		}
		r, ok := new(big.Rat).SetString(node.String())
		if ok && r.IsInt() && r.Num().IsInt64() {
			return json.Number(r.Num().String())
		}
	}
	return v
}

// decodeRequest fills a request from a document that passed the schema.
// Absent optional objects and fields keep their defaults.
func decodeRequest(doc any) (*GenerateRequest, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req := &GenerateRequest{
		Brand: BrandSettings{Voice: DefaultBrandVoice()},
		Style: DefaultStyleSettings(),
	}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

type loc []any

func (l loc) child(key any) loc {
	next := make(loc, 0, len(l)+1)
	next = append(next, l...)
	return append(next, key)
}

func (l loc) String() string {
	var b strings.Builder
	for _, part := range l {
		switch p := part.(type) {
		case int:
			b.WriteString("[" + strconv.Itoa(p) + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(fmt.Sprint(p))
		}
	}
	return b.String()
}

func enumList(allowed []any) string {
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = "'" + fmt.Sprint(a) + "'"
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func uintValue(n *uint64) int {
	if n == nil {
		return 0
	}
	return int(*n)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
