package rescache

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ceyewan/orderflow/xerrors"
)

// entry 分布式模式下的缓存条目
//
// StoredAt 随条目一起下发，便于排查降级数据的新鲜度；
// 过期本身由 Redis 的键 TTL 保证。
type entry struct {
	Payload  []byte    `json:"payload" msgpack:"payload"`
	StoredAt time.Time `json:"stored_at" msgpack:"stored_at"`
}

// serializer 定义条目编码接口
type serializer interface {
	Marshal(e *entry) ([]byte, error)
	Unmarshal(data []byte, e *entry) error
}

// jsonSerializer JSON 编码器
type jsonSerializer struct{}

func (jsonSerializer) Marshal(e *entry) ([]byte, error) {
	return json.Marshal(e)
}

func (jsonSerializer) Unmarshal(data []byte, e *entry) error {
	return json.Unmarshal(data, e)
}

// msgpackSerializer MessagePack 编码器，体积与编解码开销都低于 JSON
type msgpackSerializer struct{}

func (msgpackSerializer) Marshal(e *entry) ([]byte, error) {
	return msgpack.Marshal(e)
}

func (msgpackSerializer) Unmarshal(data []byte, e *entry) error {
	return msgpack.Unmarshal(data, e)
}

// newSerializer 创建编码器
//
// 支持 "msgpack"（默认）和 "json"。
func newSerializer(name string) (serializer, error) {
	switch name {
	case "msgpack", "":
		return msgpackSerializer{}, nil
	case "json":
		return jsonSerializer{}, nil
	default:
		return nil, xerrors.Wrapf(xerrors.New("unsupported serializer"), "rescache: %s", name)
	}
}
