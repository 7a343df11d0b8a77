package transport

const (
	CodeSuccess = 0
	CodeFailure = 1
)

type Status struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

// Envelope is the uniform response wrapper: code 0 on success, 1 on
// failure, payload under content.
type Envelope struct {
	Status  Status `json:"status"`
	Content any    `json:"content,omitempty"`
}

func OK(status, msg string, content any) Envelope {
	return Envelope{
		Status:  Status{Code: CodeSuccess, Status: status, Msg: msg},
		Content: content,
	}
}

func Fail(status, msg string) Envelope {
	return Envelope{
		Status:  Status{Code: CodeFailure, Status: status, Msg: msg},
		Content: map[string]any{},
	}
}

func FailWith(status, msg string, content any) Envelope {
	return Envelope{
		Status:  Status{Code: CodeFailure, Status: status, Msg: msg},
		Content: content,
	}
}
