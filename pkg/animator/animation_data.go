package animator

import (
	"fmt"
	"math"

	"github.com/decker502/pvz-animator/pkg/catalog"
)

// AnimationData 一次播放请求的描述
//
// Next 构成由调用方持有的单向链表：当前动画播放到尾部时自动播放 Next。
// 链表中不允许出现环，Play 会拒绝带环的链。
type AnimationData struct {
	// Animation 目标动画，RESET 表示交给默认动画策略
	Animation catalog.AnimationID

	// LockLayer 播放期间是否锁定该层（锁定时其他 Play 请求被拒绝）
	LockLayer bool

	// Crossfade 淡入时长（秒，>= 0）
	Crossfade float64

	// Next 当前动画结束后自动播放的动画（可选）
	Next *AnimationData
}

// NewAnimationData 创建描述
func NewAnimationData(animation catalog.AnimationID, lockLayer bool, crossfade float64) *AnimationData {
	return &AnimationData{
		Animation: animation,
		LockLayer: lockLayer,
		Crossfade: crossfade,
	}
}

// Then 设置 Next 并返回 d，便于链式书写
//
//	a := NewAnimationData(catalog.ATTACK1, true, 0).Then(NewAnimationData(catalog.RESET, false, 0.1))
func (d *AnimationData) Then(next *AnimationData) *AnimationData {
	d.Next = next
	return d
}

// Len 链长度（含自身），带环的链返回 -1
func (d *AnimationData) Len() int {
	if d == nil {
		return 0
	}
	if d.hasCycle() {
		return -1
	}
	n := 0
	for cur := d; cur != nil; cur = cur.Next {
		n++
	}
	return n
}

// Chain 把一组描述复制后首尾相连，返回新链的头
//
// 输入切片不会被修改；最后一项保留它自己的 Next。
// 空输入返回 nil。
func Chain(entries ...AnimationData) *AnimationData {
	if len(entries) == 0 {
		return nil
	}
	linked := make([]AnimationData, len(entries))
	copy(linked, entries)
	for i := 0; i < len(linked)-1; i++ {
		linked[i].Next = &linked[i+1]
	}
	return &linked[0]
}

func (d *AnimationData) hasCycle() bool {
	slow, fast := d, d
	for fast != nil && fast.Next != nil {
		slow = slow.Next
		fast = fast.Next.Next
		if slow == fast {
			return true
		}
	}
	return false
}

// validate 检查整条链
func (d *AnimationData) validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}
	if d.hasCycle() {
		return fmt.Errorf("%w: starting at %v", ErrChainCycle, d.Animation)
	}
	for cur := d; cur != nil; cur = cur.Next {
		if !cur.Animation.Valid() {
			return fmt.Errorf("%w: %v", ErrInvalidDescriptor, cur.Animation)
		}
		if cur.Crossfade < 0 || math.IsNaN(cur.Crossfade) || math.IsInf(cur.Crossfade, 0) {
			return fmt.Errorf("%w: crossfade %v for %v", ErrInvalidDescriptor, cur.Crossfade, cur.Animation)
		}
	}
	return nil
}
