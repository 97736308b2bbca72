package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpRequest_Valid(t *testing.T) {
	raw := []byte(`{"email":"ada@example.com","password":"secret-pass","name":"Ada"}`)

	var decoded struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Name     *string `json:"name"`
	}
	verr := SignUpRequest.ValidateInto(raw, &decoded)
	require.Nil(t, verr)

	// 校验通过后字段原样可取（结构保真）
	assert.Equal(t, "ada@example.com", decoded.Email)
	assert.Equal(t, "secret-pass", decoded.Password)
	require.NotNil(t, decoded.Name)
	assert.Equal(t, "Ada", *decoded.Name)
}

func TestSignUpRequest_PasswordTooShort(t *testing.T) {
	raw := []byte(`{"email":"ada@example.com","password":"seven77"}`)

	verr := SignUpRequest.Validate(raw)
	require.NotNil(t, verr)
	require.Contains(t, verr.FieldErrors, "password")
	assert.NotEmpty(t, verr.FieldErrors["password"])
	// 其它字段不应被牵连
	assert.NotContains(t, verr.FieldErrors, "email")
}

func TestSignUpRequest_MissingRequired(t *testing.T) {
	verr := SignUpRequest.Validate([]byte(`{"email":"ada@example.com"}`))
	require.NotNil(t, verr)
	// required 错误归到缺失字段名下
	assert.Contains(t, verr.FieldErrors, "password")
}

func TestSignUpRequest_BadEmail(t *testing.T) {
	verr := SignUpRequest.Validate([]byte(`{"email":"not-an-email","password":"secret-pass"}`))
	require.NotNil(t, verr)
	assert.Contains(t, verr.FieldErrors, "email")
}

func TestUpdateUserProfile_EmptyName(t *testing.T) {
	verr := UpdateUserProfile.Validate([]byte(`{"name":""}`))
	require.NotNil(t, verr)
	require.Contains(t, verr.FieldErrors, "name")
	assert.Contains(t, verr.FieldErrors["name"][0], "greater than or equal")
}

func TestUpdateUserProfile_OptionalFields(t *testing.T) {
	// 两个字段都可省略
	assert.Nil(t, UpdateUserProfile.Validate([]byte(`{}`)))
	assert.Nil(t, UpdateUserProfile.Validate([]byte(`{"name":"Ada"}`)))
	assert.Nil(t, UpdateUserProfile.Validate([]byte(`{"image":"https://example.com/a.png"}`)))
}

func TestMalformedJSON_SameContract(t *testing.T) {
	// JSON 解析失败与规则违例走同一契约：都返回 ValidationError
	verr := UpdateUserProfile.Validate([]byte(`{"name": `))
	require.NotNil(t, verr)
	assert.NotEmpty(t, verr.FormErrors)
	assert.Nil(t, verr.FieldErrors)
}

func TestExtend_Composition(t *testing.T) {
	base := Object(map[string]interface{}{
		"id": Id(),
	}, "id")
	extended := New("extended", Extend(base, map[string]interface{}{
		"email": Email(),
	}, "email"))

	// 基础字段与扩展字段同时生效
	assert.Nil(t, extended.Validate([]byte(`{"id":"x","email":"a@b.co"}`)))

	verr := extended.Validate([]byte(`{"email":"a@b.co"}`))
	require.NotNil(t, verr)
	assert.Contains(t, verr.FieldErrors, "id")
}

func TestUserSchema_Nullable(t *testing.T) {
	user := map[string]interface{}{
		"id":            "u-1",
		"email":         "ada@example.com",
		"name":          nil,
		"image":         nil,
		"emailVerified": true,
		"createdAt":     "2025-01-01T00:00:00Z",
		"updatedAt":     "2025-01-01T00:00:00Z",
	}
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.Nil(t, User.Validate(raw))
}

func TestDateTimeRule(t *testing.T) {
	verr := User.Validate([]byte(`{"id":"u-1","email":"a@b.co","emailVerified":false,"createdAt":"yesterday"}`))
	require.NotNil(t, verr)
	assert.Contains(t, verr.FieldErrors, "createdAt")
}

func TestEnvelopeSchemas_AcceptOwnOutput(t *testing.T) {
	assert.Nil(t, SuccessResponse.Validate([]byte(`{"success":true,"data":null,"message":"Hello BHVR!"}`)))
	assert.Nil(t, ErrorResponse.Validate([]byte(`{"success":false,"error":"Authentication required"}`)))

	// success 字面量必须与分支一致
	verr := SuccessResponse.Validate([]byte(`{"success":false}`))
	require.NotNil(t, verr)

	assert.Nil(t, ValidationErrorResponse.Validate([]byte(
		`{"success":false,"error":"Validation failed","details":{"fieldErrors":{"name":["too short"]}}}`)))
}

func TestHealthCheckSchema(t *testing.T) {
	assert.Nil(t, HealthCheckResponse.Validate([]byte(
		`{"success":true,"message":"BHVR API is running","timestamp":"2025-01-01T00:00:00Z","uptime":12.5,"environment":"development"}`)))

	verr := HealthCheckResponse.Validate([]byte(
		`{"success":true,"message":"x","timestamp":"2025-01-01T00:00:00Z","uptime":"12","environment":"development"}`))
	require.NotNil(t, verr)
	assert.Contains(t, verr.FieldErrors, "uptime")
}
