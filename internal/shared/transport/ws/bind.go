package ws

import (
	"encoding/json"
	"errors"
)

var ErrEmptyBody = errors.New("ws request data is empty")

// BindJSON 将 WsMsgReq.Data 反序列化到目标结构体。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || len(req.Data) == 0 || string(req.Data) == "null" {
		return ErrEmptyBody
	}
	return json.Unmarshal(req.Data, dst)
}
