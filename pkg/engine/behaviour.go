package engine

import "github.com/decker502/pvz-animator/pkg/catalog"

// StateInfo 状态回调上下文
type StateInfo struct {
	// Layer 状态所在层
	Layer int
	// Hash 状态原生哈希
	Hash catalog.NativeHash
	// Name 状态名（与片段名一致）
	Name string
	// Owner 引擎所属的对象（通常是 *animator.Controller），可为 nil
	Owner any
}

// StateBehaviour 挂在某个引擎状态上的行为
//
// 回调都在 SimEngine.Update 中触发：每层先派发退出，再对每个活动状态派发进入（首次）和更新；
// 状态在淡入/淡出期间同样视为活动状态。
type StateBehaviour interface {
	OnStateEnter(info StateInfo)
	OnStateUpdate(info StateInfo)
	OnStateExit(info StateInfo)
}
