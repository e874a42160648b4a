package animator

import (
	"github.com/decker502/pvz-animator/pkg/catalog"
)

// ParameterDisplay 参数的名称与值（调试面板显示用）
type ParameterDisplay struct {
	Name  string `yaml:"name"`
	Value bool   `yaml:"value"`
}

// LayerSnapshot 单层状态快照
type LayerSnapshot struct {
	Layer        int    `yaml:"layer"`
	Animation    string `yaml:"animation"`
	Locked       bool   `yaml:"locked"`
	ChainPending bool   `yaml:"chainPending"`
}

// Snapshot 控制器状态快照
type Snapshot struct {
	Layers     []LayerSnapshot    `yaml:"layers"`
	Parameters []ParameterDisplay `yaml:"parameters"`
}

// Snapshot 返回当前状态的只读副本，未初始化时返回空快照
func (c *Controller) Snapshot() Snapshot {
	var s Snapshot
	if !c.initialized {
		return s
	}

	s.Layers = make([]LayerSnapshot, len(c.layers))
	for i, ls := range c.layers {
		s.Layers[i] = LayerSnapshot{
			Layer:        i,
			Animation:    ls.current.String(),
			Locked:       ls.locked,
			ChainPending: ls.pending != 0,
		}
	}

	s.Parameters = make([]ParameterDisplay, len(c.parameters))
	for i, v := range c.parameters {
		s.Parameters[i] = ParameterDisplay{
			Name:  catalog.ParameterID(i).String(),
			Value: v,
		}
	}
	return s
}

// RestoreParameters 按名称恢复快照中的参数值
// 层状态不恢复（它们由引擎当前状态决定）
//
// 返回：成功恢复的参数个数
func (c *Controller) RestoreParameters(s Snapshot) int {
	restored := 0
	for _, p := range s.Parameters {
		id, err := catalog.ParseParameter(p.Name)
		if err != nil {
			logError("RestoreParameters", err)
			continue
		}
		if err := c.checkParameter(id); err != nil {
			logError("RestoreParameters", err)
			return restored
		}
		c.parameters[id] = p.Value
		restored++
	}
	return restored
}
