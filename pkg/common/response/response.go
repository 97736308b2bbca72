package response

// 标准响应信封：所有核心路由的响应体只能由本包的两个构造函数产生，
// success 与 data/error 严格互斥。

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Success 构造成功响应：data 可以为 nil（序列化为 data:null）
func Success(data interface{}, message string) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// Error 构造失败响应：details 为可选的结构化错误信息
func Error(err string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   err,
		Details: details,
	}
}
