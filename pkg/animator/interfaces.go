package animator

import (
	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/scheduler"
)

// Engine 底层动画引擎（外部协作者）
//
// 控制器只依赖以下原语：
//   - 初始化时读取层数和每层当前状态
//   - 播放时发起交叉淡入
//   - 链式播放时查询状态时长
//
// 所有时长单位为秒。
type Engine interface {
	// LayerCount 引擎报告的动画层数
	LayerCount() int
	// CurrentStateHash 指定层当前状态的原生哈希（仅在初始化时使用）
	CurrentStateHash(layer int) catalog.NativeHash
	// CurrentStateDuration 指定层当前状态的时长
	CurrentStateDuration(layer int) float64
	// NextStateDuration 指定层正在淡入（排队）的下一个状态的时长
	NextStateDuration(layer int) float64
	// CrossFade 在指定层上开始向目标状态的交叉淡入，引擎总是接受
	CrossFade(hash catalog.NativeHash, transitionDuration float64, layer int)
}

// Scheduler 延迟回调设施
// 回调必须在与 Play 相同的单线程主循环上执行
type Scheduler interface {
	ScheduleOnce(delay float64, fn func()) scheduler.Handle
	Cancel(h scheduler.Handle) bool
}

// DefaultAnimator 对象的默认动画策略
// 播放 RESET 时由控制器回调
type DefaultAnimator interface {
	DefaultAnimation(layer int)
}

// DefaultAnimatorFunc 函数适配器
type DefaultAnimatorFunc func(layer int)

// DefaultAnimation 实现 DefaultAnimator
func (f DefaultAnimatorFunc) DefaultAnimation(layer int) {
	f(layer)
}

// Brain 条件触发器所需的控制器能力
// *Controller 实现此接口
type Brain interface {
	GetBool(id catalog.ParameterID) bool
	SetLocked(layer int, locked bool)
	Play(layer int, data *AnimationData) bool
}
