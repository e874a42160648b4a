package animator

import (
	"log"

	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/engine"
)

// ParameterTrigger 条件触发器（挂在某个引擎状态上）
//
// 状态活动期间每帧检查一次参数：参数等于 Target 时解锁该层，
// 把 Chain 串成一条新链并播放链头。
// 条件持续成立时每帧都会重复调用 Play，但第一次成功后
// 当前动画已经变化，后续调用都会被同动画规则拒绝。
type ParameterTrigger struct {
	// Parameter 要检测的参数
	Parameter catalog.ParameterID
	// Target 期望的参数值
	Target bool
	// Chain 条件满足时依次播放的动画
	Chain []AnimationData

	brain Brain
}

var _ engine.StateBehaviour = (*ParameterTrigger)(nil)

// NewParameterTrigger 创建条件触发器
func NewParameterTrigger(parameter catalog.ParameterID, target bool, chain ...AnimationData) *ParameterTrigger {
	return &ParameterTrigger{
		Parameter: parameter,
		Target:    target,
		Chain:     chain,
	}
}

// OnStateEnter 绑定到引擎所属的控制器
func (t *ParameterTrigger) OnStateEnter(info engine.StateInfo) {
	brain, ok := info.Owner.(Brain)
	if !ok {
		log.Printf("[ParameterTrigger] State %s on layer %d: engine owner %T is not an animator", info.Name, info.Layer, info.Owner)
		t.brain = nil
		return
	}
	t.brain = brain
}

// OnStateUpdate 检查条件并派发动画链
func (t *ParameterTrigger) OnStateUpdate(info engine.StateInfo) {
	if t.brain == nil || len(t.Chain) == 0 {
		return
	}
	if t.brain.GetBool(t.Parameter) != t.Target {
		return
	}

	t.brain.SetLocked(info.Layer, false)
	// 每次派发都复制一条新链，不修改 Chain 的内容
	t.brain.Play(info.Layer, Chain(t.Chain...))
}

// OnStateExit 解除绑定
func (t *ParameterTrigger) OnStateExit(info engine.StateInfo) {
	t.brain = nil
}
