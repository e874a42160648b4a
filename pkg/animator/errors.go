package animator

import (
	"errors"
	"log"
)

var (
	// ErrOutOfRange 层号或参数超出初始化时确定的范围
	ErrOutOfRange = errors.New("index out of range (don't exceed the number of animator layers)")
	// ErrUninitialized 控制器尚未 Initialize
	ErrUninitialized = errors.New("animator not initialized (call Initialize() before use)")
	// ErrInvalidDescriptor 播放描述无效（nil、负淡入时长、未知动画）
	ErrInvalidDescriptor = errors.New("invalid animation descriptor")
	// ErrChainCycle 播放链中存在环
	ErrChainCycle = errors.New("animation chain contains a cycle")
)

// logError 运行期错误只记录日志，不向调用方传播
func logError(op string, err error) {
	log.Printf("[Animator] Error: %s: %v", op, err)
}
