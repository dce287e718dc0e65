package server

import (
	"net/http"

	"github.com/ceyewan/orderflow/gateway"
	"github.com/ceyewan/orderflow/workflow"
	"github.com/ceyewan/orderflow/xerrors"
)

// statusForError 将错误链上的错误码映射为 HTTP 状态码
func statusForError(err error) int {
	switch xerrors.GetCode(err) {
	case workflow.CodeUnauthorized:
		return http.StatusUnauthorized
	case workflow.CodeNotFound:
		return http.StatusNotFound
	case workflow.CodeInsufficientStock, workflow.CodeBadRequest:
		return http.StatusBadRequest
	case gateway.CodeUnavailable:
		return http.StatusServiceUnavailable
	case gateway.CodeUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
