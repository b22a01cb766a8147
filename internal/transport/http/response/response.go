package response

// Resp 与业务后端同一个壳：{success, message, data}
type Resp struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// New 保证 data 不为 null
func New(success bool, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Success: success, Message: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(true, MsgMap[CodeOK], data)
}

// Error 失败响应（customMsg 可覆盖默认文案）
func Error(code int, customMsg string) Resp {
	msg := MsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(false, msg, struct{}{})
}
