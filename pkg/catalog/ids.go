// Package catalog 定义动画状态与动画参数的固定枚举，
// 以及把动画名称映射到引擎原生哈希的共享只读哈希表。
package catalog

import (
	"fmt"
	"strings"
)

// AnimationID 动画状态标识（稠密整数，作为数组下标使用）
type AnimationID int

// 动画状态枚举
// 新增成员时只需修改此处和 animationNames，不影响其他逻辑
const (
	IDLE AnimationID = iota
	RUN
	ATTACK1
	ATTACK2
	HIT
	JUMP
	FALL
	// RESET 哨兵值：表示"交给对象的默认动画策略"，不是可播放的状态
	RESET

	// AnimationCount 动画枚举成员数量
	AnimationCount = int(RESET) + 1
)

var animationNames = [AnimationCount]string{
	IDLE:    "IDLE",
	RUN:     "RUN",
	ATTACK1: "ATTACK1",
	ATTACK2: "ATTACK2",
	HIT:     "HIT",
	JUMP:    "JUMP",
	FALL:    "FALL",
	RESET:   "RESET",
}

// String 返回动画的符号名称（与引擎中的状态名一致）
func (a AnimationID) String() string {
	if !a.Valid() {
		return fmt.Sprintf("AnimationID(%d)", int(a))
	}
	return animationNames[a]
}

// Valid 是否为枚举内的成员
func (a AnimationID) Valid() bool {
	return a >= 0 && int(a) < AnimationCount
}

// AllAnimations 按序号返回全部动画成员（含 RESET）
func AllAnimations() []AnimationID {
	all := make([]AnimationID, AnimationCount)
	for i := range all {
		all[i] = AnimationID(i)
	}
	return all
}

// ParseAnimation 按名称（大小写不敏感）解析动画标识
func ParseAnimation(name string) (AnimationID, error) {
	for i, n := range animationNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return AnimationID(i), nil
		}
	}
	return RESET, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
}

// ParameterID 动画参数标识
type ParameterID int

// 动画参数枚举
const (
	GROUNDED ParameterID = iota
	FALLING

	// ParameterCount 参数枚举成员数量
	ParameterCount = int(FALLING) + 1
)

var parameterNames = [ParameterCount]string{
	GROUNDED: "GROUNDED",
	FALLING:  "FALLING",
}

func (p ParameterID) String() string {
	if !p.Valid() {
		return fmt.Sprintf("ParameterID(%d)", int(p))
	}
	return parameterNames[p]
}

// Valid 是否为枚举内的成员
func (p ParameterID) Valid() bool {
	return p >= 0 && int(p) < ParameterCount
}

// AllParameters 按序号返回全部参数成员
func AllParameters() []ParameterID {
	all := make([]ParameterID, ParameterCount)
	for i := range all {
		all[i] = ParameterID(i)
	}
	return all
}

// ParseParameter 按名称（大小写不敏感）解析参数标识
func ParseParameter(name string) (ParameterID, error) {
	for i, n := range parameterNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ParameterID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}
