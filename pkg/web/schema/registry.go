package schema

// 具名 schema 注册表：请求/响应载荷的规范形态都在这里声明，
// 组合方式统一为 基础片段 + Object/Extend 结构化扩展。

func literal(v interface{}) map[string]interface{} {
	return map[string]interface{}{"enum": []interface{}{v}}
}

// ---- 通用信封 ----

var (
	successEnvelopeDoc = Object(map[string]interface{}{
		"success": literal(true),
		"message": map[string]interface{}{"type": "string"},
		"data":    map[string]interface{}{},
	}, "success")

	errorEnvelopeDoc = Object(map[string]interface{}{
		"success": literal(false),
		"error":   map[string]interface{}{"type": "string"},
		"details": map[string]interface{}{},
	}, "success", "error")

	validationErrorDoc = Extend(errorEnvelopeDoc, map[string]interface{}{
		"error": literal("Validation failed"),
		"details": Object(map[string]interface{}{
			"fieldErrors": map[string]interface{}{
				"type": "object",
				"additionalProperties": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
			"formErrors": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		}),
	}, "details")

	userDoc = Object(map[string]interface{}{
		"id":            Id(),
		"email":         Email(),
		"name":          Nullable(Name()),
		"image":         Nullable(Url()),
		"emailVerified": Boolean(),
		"createdAt":     DateTime(),
		"updatedAt":     DateTime(),
	}, "id", "email", "emailVerified")

	sessionDoc = Object(map[string]interface{}{
		"id":        Id(),
		"userId":    Id(),
		"expiresAt": DateTime(),
		"ipAddress": map[string]interface{}{"type": "string"},
		"userAgent": map[string]interface{}{"type": "string"},
		"createdAt": DateTime(),
	}, "id", "userId", "expiresAt")

	healthCheckDoc = Object(map[string]interface{}{
		"success":     literal(true),
		"message":     map[string]interface{}{"type": "string"},
		"timestamp":   DateTime(),
		"uptime":      map[string]interface{}{"type": "number"},
		"environment": map[string]interface{}{"type": "string"},
	}, "success", "message", "timestamp", "uptime", "environment")
)

// ---- 请求 schema ----

var (
	SignUpRequest = New("SignUpRequest", Object(map[string]interface{}{
		"email":    Email(),
		"password": Password(),
		"name":     Name(),
	}, "email", "password"))

	SignInRequest = New("SignInRequest", Object(map[string]interface{}{
		"email":    Email(),
		"password": Password(),
	}, "email", "password"))

	ForgotPasswordRequest = New("ForgotPasswordRequest", Object(map[string]interface{}{
		"email": Email(),
	}, "email"))

	ResetPasswordRequest = New("ResetPasswordRequest", Object(map[string]interface{}{
		"token":       Id(),
		"newPassword": Password(),
	}, "token", "newPassword"))

	ChangePasswordRequest = New("ChangePasswordRequest", Object(map[string]interface{}{
		"currentPassword": Id(),
		"newPassword":     Password(),
	}, "currentPassword", "newPassword"))

	UpdateUserProfile = New("UpdateUserProfile", Object(map[string]interface{}{
		"name":  Name(),
		"image": Url(),
	}))
)

// ---- 响应 schema（文档生成与自校验用）----

var (
	SuccessResponse         = New("SuccessResponse", successEnvelopeDoc)
	ErrorResponse           = New("ErrorResponse", errorEnvelopeDoc)
	ValidationErrorResponse = New("ValidationErrorResponse", validationErrorDoc)
	User                    = New("User", userDoc)
	Session                 = New("Session", sessionDoc)
	HealthCheckResponse     = New("HealthCheckResponse", healthCheckDoc)

	// 用户资料响应 = 成功信封 + data: User
	UserProfileResponse = New("UserProfileResponse",
		Extend(successEnvelopeDoc, map[string]interface{}{"data": userDoc}, "data"))

	// 更新资料响应在 UserProfileResponse 之上固定 message 字面量
	UpdateProfileResponse = New("UpdateProfileResponse",
		Extend(successEnvelopeDoc, map[string]interface{}{
			"data":    userDoc,
			"message": literal("Profile updated successfully"),
		}, "data", "message"))
)
