package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCoversAllRoutes(t *testing.T) {
	spec := Generate("http://localhost:3000")

	assert.Equal(t, "3.0.3", spec.OpenAPI)
	assert.Equal(t, "BHVR API", spec.Info.Title)

	for _, path := range []string{
		"/",
		"/hello",
		"/api/auth/sign-up",
		"/api/auth/sign-in",
		"/api/auth/sign-out",
		"/api/auth/get-session",
		"/api/auth/change-password",
		"/api/auth/forgot-password",
		"/api/auth/reset-password",
		"/api/user/profile",
		"/api/upload/single",
		"/api/upload/multiple",
	} {
		assert.Contains(t, spec.Paths, path)
	}

	// 组件里必须带上请求/响应 schema 和鉴权方式
	assert.Contains(t, spec.Components.Schemas, "SignUpRequest")
	assert.Contains(t, spec.Components.Schemas, "ValidationErrorResponse")
	assert.Contains(t, spec.Components.SecuritySchemes, "bearerAuth")
}

func TestGenerateSerializable(t *testing.T) {
	spec := Generate("http://localhost:3000")

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	var round map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &round))
	assert.Equal(t, "3.0.3", round["openapi"])
}

func TestProfileOperationsDeclareAuth(t *testing.T) {
	spec := Generate("http://localhost:3000")

	profile := spec.Paths["/api/user/profile"]
	require.NotNil(t, profile)
	require.NotNil(t, profile.Get)
	require.NotNil(t, profile.Put)
	assert.NotEmpty(t, profile.Get.Security)
	assert.NotEmpty(t, profile.Put.Security)
	require.NotNil(t, profile.Put.RequestBody)
}
