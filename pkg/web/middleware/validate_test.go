package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"bhvr-server/pkg/common/response"
	"bhvr-server/pkg/web/schema"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidateEngine(invoked *bool) *server.Hertz {
	h := server.Default()
	h.POST("/echo", ValidateBody(schema.SignInRequest), func(c context.Context, ctx *app.RequestContext) {
		*invoked = true
		ctx.JSON(200, response.Success(json.RawMessage(ValidatedBody(ctx)), ""))
	})
	return h
}

func performJSON(h *server.Hertz, method, path, body string) *ut.ResponseRecorder {
	return ut.PerformRequest(h.Engine, method, path,
		&ut.Body{Body: bytes.NewBufferString(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
}

func TestValidateBodyPass(t *testing.T) {
	invoked := false
	h := newValidateEngine(&invoked)

	w := performJSON(h, "POST", "/echo", `{"email":"ada@example.com","password":"password123"}`)
	resp := w.Result()

	assert.Equal(t, 200, resp.StatusCode())
	assert.True(t, invoked)
}

func TestValidateBodyRejects(t *testing.T) {
	invoked := false
	h := newValidateEngine(&invoked)

	w := performJSON(h, "POST", "/echo", `{"email":"not-an-email","password":"short"}`)
	resp := w.Result()

	require.Equal(t, 400, resp.StatusCode())
	assert.False(t, invoked)

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Details struct {
			FieldErrors map[string][]string `json:"fieldErrors"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(resp.Body(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "Validation failed", envelope.Error)
	assert.Contains(t, envelope.Details.FieldErrors, "email")
	assert.Contains(t, envelope.Details.FieldErrors, "password")
}

func TestValidateBodyMalformedJSON(t *testing.T) {
	invoked := false
	h := newValidateEngine(&invoked)

	w := performJSON(h, "POST", "/echo", `{"email": "ada@example.com",`)
	resp := w.Result()

	// 坏 JSON 和校验失败走同一个 400 合同
	require.Equal(t, 400, resp.StatusCode())
	assert.False(t, invoked)

	var envelope struct {
		Error   string `json:"error"`
		Details struct {
			FormErrors []string `json:"formErrors"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(resp.Body(), &envelope))
	assert.Equal(t, "Validation failed", envelope.Error)
	assert.NotEmpty(t, envelope.Details.FormErrors)
}
