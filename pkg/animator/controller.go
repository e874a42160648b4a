// Package animator 实现按层管理的动画状态机
//
// Controller 为每个动画层记录 {当前动画, 锁定标记, 待触发的链式计时器}，
// 负责播放请求的校验、锁定规则、链式播放的延迟计算与取消。
// 所有方法都应在同一个主循环（帧更新）上调用，因此内部不加锁。
package animator

import (
	"fmt"
	"log"

	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/scheduler"
)

// layerState 单层状态
type layerState struct {
	current catalog.AnimationID
	locked  bool
	// pending 待触发的链式计时器，0 表示没有
	pending scheduler.Handle
}

// Controller 动画层控制器（每个动画对象一个）
type Controller struct {
	table     *catalog.HashTable
	engine    Engine
	scheduler Scheduler
	defaults  DefaultAnimator

	layers     []layerState
	parameters []bool

	initialized bool
	destroyed   bool
}

// NewController 创建控制器
//
// 参数：
//   - table: 共享的动画哈希表（会在 Initialize 时构建，可重复使用）
//   - engine: 底层动画引擎
//   - sched: 延迟回调设施（通常由 AnimatorSystem 共享）
//   - defaults: 默认动画策略，可为 nil（此时 RESET 不做任何事）
//
// 创建后必须调用 Initialize 才能使用。
func NewController(table *catalog.HashTable, engine Engine, sched Scheduler, defaults DefaultAnimator) *Controller {
	return &Controller{
		table:     table,
		engine:    engine,
		scheduler: sched,
		defaults:  defaults,
	}
}

// Initialize 建立每层状态和参数表
//
// 层数取自引擎；每层当前动画通过反查引擎当前状态哈希得到，
// 无法匹配时记为 RESET（下一次任何非 RESET 播放都会提交）。
// 重复调用会取消所有未触发的链并重新读取引擎状态。
func (c *Controller) Initialize() error {
	if c.table == nil || c.engine == nil || c.scheduler == nil {
		return fmt.Errorf("animator: Initialize requires hash table, engine and scheduler")
	}
	c.table.Initialize()
	c.cancelAllPending()

	count := c.engine.LayerCount()
	if count < 0 {
		count = 0
	}
	c.layers = make([]layerState, count)
	for i := range c.layers {
		anim, ok := c.table.Lookup(c.engine.CurrentStateHash(i))
		if !ok {
			log.Printf("[Animator] Layer %d: engine state not in catalog, treating as RESET", i)
		}
		c.layers[i].current = anim
	}

	c.parameters = make([]bool, catalog.ParameterCount)
	c.initialized = true
	c.destroyed = false
	return nil
}

// Destroy 取消所有未触发的链
// 之后已排队的回调、Play 调用都是安全的空操作
func (c *Controller) Destroy() {
	c.cancelAllPending()
	c.destroyed = true
}

// Initialized 是否已初始化
func (c *Controller) Initialized() bool {
	return c.initialized
}

// LayerCount 层数（未初始化时为 0）
func (c *Controller) LayerCount() int {
	return len(c.layers)
}

// GetCurrentAnimation 返回层上最近一次提交的动画
// 出错时记录日志并返回 RESET
func (c *Controller) GetCurrentAnimation(layer int) catalog.AnimationID {
	ls, err := c.layer(layer)
	if err != nil {
		logError("GetCurrentAnimation", err)
		return catalog.RESET
	}
	return ls.current
}

// SetLocked 锁定或解锁整层
func (c *Controller) SetLocked(layer int, locked bool) {
	ls, err := c.layer(layer)
	if err != nil {
		logError("SetLocked", err)
		return
	}
	ls.locked = locked
}

// IsLocked 层是否被锁定，出错时返回 false
func (c *Controller) IsLocked(layer int) bool {
	ls, err := c.layer(layer)
	if err != nil {
		logError("IsLocked", err)
		return false
	}
	return ls.locked
}

// HasPendingChain 层上是否有尚未触发的链
func (c *Controller) HasPendingChain(layer int) bool {
	ls, err := c.layer(layer)
	if err != nil {
		logError("HasPendingChain", err)
		return false
	}
	return ls.pending != 0
}

// SetBool 设置动画参数
func (c *Controller) SetBool(id catalog.ParameterID, value bool) {
	if err := c.checkParameter(id); err != nil {
		logError("SetBool", err)
		return
	}
	c.parameters[id] = value
}

// GetBool 读取动画参数，出错时返回 false
func (c *Controller) GetBool(id catalog.ParameterID) bool {
	if err := c.checkParameter(id); err != nil {
		logError("GetBool", err)
		return false
	}
	return c.parameters[id]
}

func (c *Controller) layer(layer int) (*layerState, error) {
	if !c.initialized {
		return nil, ErrUninitialized
	}
	if layer < 0 || layer >= len(c.layers) {
		return nil, fmt.Errorf("%w: layer %d (layers: %d)", ErrOutOfRange, layer, len(c.layers))
	}
	return &c.layers[layer], nil
}

func (c *Controller) checkParameter(id catalog.ParameterID) error {
	if !c.initialized || c.parameters == nil {
		return ErrUninitialized
	}
	if !id.Valid() {
		return fmt.Errorf("%w: %v", ErrOutOfRange, id)
	}
	return nil
}

func (c *Controller) cancelPending(ls *layerState) {
	if ls.pending != 0 {
		c.scheduler.Cancel(ls.pending)
		ls.pending = 0
	}
}

func (c *Controller) cancelAllPending() {
	for i := range c.layers {
		c.cancelPending(&c.layers[i])
	}
}
