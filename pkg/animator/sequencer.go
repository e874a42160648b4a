package animator

import (
	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/scheduler"
)

// Play 尝试在指定层上播放动画
//
// 规则：
//  1. RESET：调用默认动画策略，不提交过渡（先于层号与初始化检查）
//  2. 层已锁定，或目标动画就是当前动画：拒绝（防止动画抖动）
//  3. 否则取消该层未触发的链，更新锁定/当前动画，向引擎发起交叉淡入
//  4. 若带有 Next：按当前片段时长减去 Next 的淡入时长安排一次性回调，
//     回调触发时解锁该层并递归播放 Next
//
// 返回：是否真正提交了新的过渡
func (c *Controller) Play(layer int, data *AnimationData) bool {
	committed, err := c.play(layer, data)
	if err != nil {
		logError("Play", err)
	}
	return committed
}

func (c *Controller) play(layer int, data *AnimationData) (bool, error) {
	if c.destroyed {
		return false, nil
	}
	if data == nil {
		return false, data.validate()
	}

	// RESET 不读写任何层状态，层号原样交给默认动画策略
	if data.Animation == catalog.RESET {
		if c.defaults != nil {
			c.defaults.DefaultAnimation(layer)
		}
		return false, nil
	}

	ls, err := c.layer(layer)
	if err != nil {
		return false, err
	}
	if err := data.validate(); err != nil {
		return false, err
	}

	if ls.locked || ls.current == data.Animation {
		return false, nil
	}

	hash, err := c.table.HashOf(data.Animation)
	if err != nil {
		return false, err
	}

	c.cancelPending(ls)
	ls.locked = data.LockLayer
	ls.current = data.Animation
	c.engine.CrossFade(hash, data.Crossfade, layer)

	if data.Next != nil {
		ls.pending = c.scheduleNext(layer, data)
	}
	return true, nil
}

// chainDelay 计算链式回调的延迟
//
// 非零淡入时新状态仍是引擎的"下一个状态"，零淡入时已成为当前状态。
// 减去 Next 的淡入时长，使下一段淡入正好覆盖当前片段的尾部。
// 结果可能为负（Next 淡入比当前片段还长），此时在下一帧立即触发。
func (c *Controller) chainDelay(layer int, data *AnimationData) float64 {
	var duration float64
	if data.Crossfade == 0 {
		duration = c.engine.CurrentStateDuration(layer)
	} else {
		duration = c.engine.NextStateDuration(layer)
	}
	return duration - data.Next.Crossfade
}

func (c *Controller) scheduleNext(layer int, data *AnimationData) scheduler.Handle {
	next := data.Next
	var handle scheduler.Handle
	handle = c.scheduler.ScheduleOnce(c.chainDelay(layer, data), func() {
		c.fireChain(layer, handle, next)
	})
	return handle
}

func (c *Controller) fireChain(layer int, handle scheduler.Handle, next *AnimationData) {
	if c.destroyed {
		return
	}
	ls, err := c.layer(layer)
	if err != nil {
		return
	}
	// 重新 Initialize 后旧回调不再属于该层
	if ls.pending != handle {
		return
	}
	ls.pending = 0

	c.SetLocked(layer, false)
	c.Play(layer, next)
}
