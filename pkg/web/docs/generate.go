package docs

import (
	"context"

	"bhvr-server/pkg/web/schema"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Version 文档里声明的 API 版本号
const Version = "1.0.0"

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func jsonBody(s *schema.Schema) *RequestBody {
	return &RequestBody{
		Required: true,
		Content:  map[string]MediaType{"application/json": {Schema: ref(s.Name)}},
	}
}

func jsonResponse(description string, schemaName string) Response {
	return Response{
		Description: description,
		Content:     map[string]MediaType{"application/json": {Schema: ref(schemaName)}},
	}
}

var bearerAuth = []map[string][]string{{"bearerAuth": {}}}

// Generate 组装完整的 OpenAPI 文档
func Generate(serverURL string) *Spec {
	components := Components{
		Schemas: map[string]map[string]interface{}{},
		SecuritySchemes: map[string]SecurityScheme{
			"bearerAuth": {
				Type:         "http",
				Scheme:       "bearer",
				BearerFormat: "JWT",
				Description:  "Session token issued by /api/auth/sign-in",
			},
		},
	}

	for _, s := range []*schema.Schema{
		schema.SignUpRequest,
		schema.SignInRequest,
		schema.ForgotPasswordRequest,
		schema.ResetPasswordRequest,
		schema.ChangePasswordRequest,
		schema.UpdateUserProfile,
		schema.SuccessResponse,
		schema.ErrorResponse,
		schema.ValidationErrorResponse,
		schema.User,
		schema.Session,
		schema.HealthCheckResponse,
		schema.UserProfileResponse,
		schema.UpdateProfileResponse,
	} {
		components.Schemas[s.Name] = s.Document()
	}

	validationFailed := jsonResponse("Validation failed", "ValidationErrorResponse")
	unauthorized := jsonResponse("Authentication required", "ErrorResponse")

	paths := map[string]*PathItem{
		"/": {
			Get: &Operation{
				Tags:        []string{"Health"},
				Summary:     "Health check",
				OperationID: "healthCheck",
				Responses: map[string]Response{
					"200": jsonResponse("Service status", "HealthCheckResponse"),
				},
			},
		},
		"/hello": {
			Get: &Operation{
				Tags:        []string{"Health"},
				Summary:     "Connectivity probe",
				OperationID: "hello",
				Responses: map[string]Response{
					"200": jsonResponse("Greeting envelope", "SuccessResponse"),
				},
			},
		},
		"/api/auth/sign-up": {
			Post: &Operation{
				Tags:        []string{"Auth"},
				Summary:     "Create a new account",
				OperationID: "signUp",
				RequestBody: jsonBody(schema.SignUpRequest),
				Responses: map[string]Response{
					"201": jsonResponse("Account created", "SuccessResponse"),
					"400": validationFailed,
					"409": jsonResponse("Email already registered", "ErrorResponse"),
				},
			},
		},
		"/api/auth/sign-in": {
			Post: &Operation{
				Tags:        []string{"Auth"},
				Summary:     "Sign in and issue a session token",
				OperationID: "signIn",
				RequestBody: jsonBody(schema.SignInRequest),
				Responses: map[string]Response{
					"200": jsonResponse("Signed in", "SuccessResponse"),
					"400": validationFailed,
					"401": jsonResponse("Invalid credentials", "ErrorResponse"),
				},
			},
		},
		"/api/auth/sign-out": {
			Post: &Operation{
				Tags:        []string{"Auth"},
				Summary:     "Revoke the current session",
				OperationID: "signOut",
				Security:    bearerAuth,
				Responses: map[string]Response{
					"200": jsonResponse("Signed out", "SuccessResponse"),
					"401": unauthorized,
				},
			},
		},
		"/api/auth/get-session": {
			Get: &Operation{
				Tags:        []string{"Auth"},
				Summary:     "Current user and session",
				OperationID: "getSession",
				Security:    bearerAuth,
				Responses: map[string]Response{
					"200": jsonResponse("Current login state", "SuccessResponse"),
					"401": unauthorized,
				},
			},
		},
		"/api/auth/change-password": {
			Post: &Operation{
				Tags:        []string{"Auth"},
				Summary:     "Change password",
				OperationID: "changePassword",
				Security:    bearerAuth,
				RequestBody: jsonBody(schema.ChangePasswordRequest),
				Responses: map[string]Response{
					"200": jsonResponse("Password changed", "SuccessResponse"),
					"400": validationFailed,
					"401": unauthorized,
				},
			},
		},
		"/api/auth/forgot-password": {
			Post: &Operation{
				Tags:        []string{"Auth"},
				Summary:     "Request a password reset email",
				OperationID: "forgotPassword",
				RequestBody: jsonBody(schema.ForgotPasswordRequest),
				Responses: map[string]Response{
					"200": jsonResponse("Reset email sent (always)", "SuccessResponse"),
					"400": validationFailed,
				},
			},
		},
		"/api/auth/reset-password": {
			Post: &Operation{
				Tags:        []string{"Auth"},
				Summary:     "Reset password with a one-time token",
				OperationID: "resetPassword",
				RequestBody: jsonBody(schema.ResetPasswordRequest),
				Responses: map[string]Response{
					"200": jsonResponse("Password reset", "SuccessResponse"),
					"400": jsonResponse("Invalid token or payload", "ErrorResponse"),
				},
			},
		},
		"/api/user/profile": {
			Get: &Operation{
				Tags:        []string{"User"},
				Summary:     "Get current user profile",
				OperationID: "getProfile",
				Security:    bearerAuth,
				Responses: map[string]Response{
					"200": jsonResponse("Profile", "UserProfileResponse"),
					"401": unauthorized,
				},
			},
			Put: &Operation{
				Tags:        []string{"User"},
				Summary:     "Update name and/or avatar",
				OperationID: "updateProfile",
				Security:    bearerAuth,
				RequestBody: jsonBody(schema.UpdateUserProfile),
				Responses: map[string]Response{
					"200": jsonResponse("Updated profile", "UpdateProfileResponse"),
					"400": validationFailed,
					"401": unauthorized,
				},
			},
		},
		"/api/upload/single": {
			Post: &Operation{
				Tags:        []string{"Upload"},
				Summary:     "Upload exactly one file",
				OperationID: "uploadSingle",
				RequestBody: &RequestBody{
					Required: true,
					Content: map[string]MediaType{
						"multipart/form-data": {Schema: map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"file": map[string]interface{}{"type": "string", "format": "binary"},
							},
							"required": []string{"file"},
						}},
					},
				},
				Responses: map[string]Response{
					"200": jsonResponse("File stored", "SuccessResponse"),
					"400": jsonResponse("Missing or ambiguous file", "ErrorResponse"),
					"413": jsonResponse("File too large", "ErrorResponse"),
					"415": jsonResponse("File type not allowed", "ErrorResponse"),
				},
			},
		},
		"/api/upload/multiple": {
			Post: &Operation{
				Tags:        []string{"Upload"},
				Summary:     "Upload several files atomically",
				OperationID: "uploadMultiple",
				RequestBody: &RequestBody{
					Required: true,
					Content: map[string]MediaType{
						"multipart/form-data": {Schema: map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"files": map[string]interface{}{
									"type":  "array",
									"items": map[string]interface{}{"type": "string", "format": "binary"},
								},
							},
							"required": []string{"files"},
						}},
					},
				},
				Responses: map[string]Response{
					"200": jsonResponse("All files stored", "SuccessResponse"),
					"400": jsonResponse("No files provided", "ErrorResponse"),
					"413": jsonResponse("A file exceeds the size limit", "ErrorResponse"),
					"415": jsonResponse("A file type is not allowed", "ErrorResponse"),
				},
			},
		},
	}

	return &Spec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "BHVR API",
			Description: "REST API with session auth, validated payloads and file uploads",
			Version:     Version,
		},
		Servers: []Server{{URL: serverURL, Description: "Current server"}},
		Tags: []Tag{
			{Name: "Health", Description: "Liveness and connectivity"},
			{Name: "Auth", Description: "Account and session lifecycle"},
			{Name: "User", Description: "Profile management"},
			{Name: "Upload", Description: "Validated file uploads"},
		},
		Paths:      paths,
		Components: components,
	}
}

// OpenAPIJSON 输出机器可读的文档
func OpenAPIJSON(serverURL string) app.HandlerFunc {
	spec := Generate(serverURL)
	return func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, spec)
	}
}
