package workflow

import "github.com/ceyewan/orderflow/xerrors"

// 错误码，供 HTTP 层映射状态码
const (
	// CodeUnauthorized 令牌缺失、非法或与客户不匹配 → 401
	CodeUnauthorized = "UNAUTHORIZED"

	// CodeNotFound 客户或商品不存在 → 404
	CodeNotFound = "NOT_FOUND"

	// CodeInsufficientStock 库存不足，在任何写操作前中止 → 400
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// CodeBadRequest 下游依赖拒绝写操作 → 400
	CodeBadRequest = "BAD_REQUEST"
)

// unauthorized 构造鉴权失败错误
func unauthorized(msg string) error {
	return xerrors.WithCode(xerrors.New(msg), CodeUnauthorized)
}

// notFound 构造资源不存在错误
func notFound(msg string) error {
	return xerrors.WithCode(xerrors.New(msg), CodeNotFound)
}

// insufficientStock 构造库存不足错误
func insufficientStock(msg string) error {
	return xerrors.WithCode(xerrors.New(msg), CodeInsufficientStock)
}

// badRequest 构造下游拒绝错误
func badRequest(msg string) error {
	return xerrors.WithCode(xerrors.New(msg), CodeBadRequest)
}
