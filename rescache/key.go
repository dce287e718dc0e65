package rescache

import (
	"net/http"
	"net/url"
	"strings"
)

// Key 从调用要素推导缓存键
//
// 键由 (依赖名, 方法, 路径, 规范化查询参数) 确定性拼接而成。
// 只有幂等读操作（GET）会生成缓存键；
// 写操作返回空键，表示该调用不参与缓存。
func Key(dependency, method, path string, query url.Values) string {
	if !strings.EqualFold(method, http.MethodGet) {
		return ""
	}

	var b strings.Builder
	b.WriteString(dependency)
	b.WriteByte(':')
	b.WriteString(http.MethodGet)
	b.WriteByte(':')
	b.WriteString(path)
	if len(query) > 0 {
		b.WriteByte('?')
		// Encode 按键名排序，保证同一组参数生成同一个键
		b.WriteString(query.Encode())
	}
	return b.String()
}
