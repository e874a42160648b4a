package components

import (
	"github.com/decker502/pvz-animator/pkg/animator"
	"github.com/decker502/pvz-animator/pkg/config"
	"github.com/decker502/pvz-animator/pkg/engine"
)

// AnimatorComponent 带分层动画控制器的实体
// 由 AnimatorSystem.Spawn 创建，Engine 的所属对象是 Controller
type AnimatorComponent struct {
	// Name 实体名称（快照存储的键）
	Name string

	// Controller 分层动画控制器
	Controller *animator.Controller

	// Engine 该实体的模拟动画引擎
	Engine *engine.SimEngine

	// Config 创建实体所用的配置（用于按名称构建动画链）
	Config *config.AnimatorConfig
}

// PlayChain 在指定层上播放配置中的命名动画链
//
// 返回：控制器是否提交了首项；链不存在时返回 false
func (c *AnimatorComponent) PlayChain(layer int, name string) bool {
	if c.Config == nil {
		return false
	}
	chain, err := c.Config.Chain(name)
	if err != nil {
		return false
	}
	return c.Controller.Play(layer, chain)
}
