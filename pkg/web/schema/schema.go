package schema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError 校验失败的结构化描述：字段级错误 + 表单级错误
type ValidationError struct {
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	FormErrors  []string            `json:"formErrors,omitempty"`
}

// Schema 具名的请求/响应载荷模式，编译自 JSON Schema 文档
type Schema struct {
	Name string

	doc      map[string]interface{}
	compiled *gojsonschema.Schema
}

// New 编译具名 schema；注册表在进程启动时构建，编译失败直接 panic
func New(name string, doc map[string]interface{}) *Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("schema %s 编译失败: %v", name, err))
	}
	return &Schema{Name: name, doc: doc, compiled: compiled}
}

// Document 返回底层 JSON Schema 文档（OpenAPI 文档生成用）
func (s *Schema) Document() map[string]interface{} {
	return s.doc
}

// Validate 纯函数校验：合法返回 nil，否则返回字段/表单级错误。
// JSON 本身解析失败与规则违例走同一套 "Validation failed" 契约。
func (s *Schema) Validate(raw []byte) *ValidationError {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationError{FormErrors: []string{"Invalid JSON payload"}}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{FieldErrors: map[string][]string{}}
	for _, e := range result.Errors() {
		field := e.Field()
		// required 错误归到缺失字段名下，而不是 (root)
		if e.Type() == "required" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
		}
		if field == "(root)" {
			verr.FormErrors = append(verr.FormErrors, e.Description())
			continue
		}
		verr.FieldErrors[field] = append(verr.FieldErrors[field], e.Description())
	}
	if len(verr.FieldErrors) == 0 {
		verr.FieldErrors = nil
	}
	return verr
}

// ValidateInto 校验后解码出类型化值；两步失败都映射为同一错误形态
func (s *Schema) ValidateInto(raw []byte, dst interface{}) *ValidationError {
	if verr := s.Validate(raw); verr != nil {
		return verr
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{FormErrors: []string{"Invalid JSON payload"}}
	}
	return nil
}

// ---- 基础字段 schema 片段 ----

func Email() map[string]interface{} {
	return map[string]interface{}{"type": "string", "format": "email"}
}

func Password() map[string]interface{} {
	return map[string]interface{}{"type": "string", "minLength": 8, "maxLength": 100}
}

func Name() map[string]interface{} {
	return map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 100}
}

func Id() map[string]interface{} {
	return map[string]interface{}{"type": "string", "minLength": 1}
}

func DateTime() map[string]interface{} {
	return map[string]interface{}{"type": "string", "format": "date-time"}
}

func Url() map[string]interface{} {
	return map[string]interface{}{"type": "string", "format": "uri"}
}

func Boolean() map[string]interface{} {
	return map[string]interface{}{"type": "boolean"}
}

// Nullable 允许字段为 null
func Nullable(prop map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range prop {
		out[k] = v
	}
	switch t := out["type"].(type) {
	case string:
		out["type"] = []string{t, "null"}
	}
	return out
}

// ---- 结构化组合 ----

// Object 构造对象 schema
func Object(props map[string]interface{}, required ...string) map[string]interface{} {
	doc := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

// Extend 结构化扩展：基础 schema + 追加字段（组合而非运行时类型探测）
func Extend(base map[string]interface{}, props map[string]interface{}, required ...string) map[string]interface{} {
	merged := map[string]interface{}{}
	if bp, ok := base["properties"].(map[string]interface{}); ok {
		for k, v := range bp {
			merged[k] = v
		}
	}
	for k, v := range props {
		merged[k] = v
	}

	var req []string
	if br, ok := base["required"].([]string); ok {
		req = append(req, br...)
	}
	req = append(req, required...)

	return Object(merged, req...)
}
