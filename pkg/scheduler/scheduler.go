// Package scheduler 提供单线程、按帧推进的一次性延迟回调
//
// 不使用系统定时器：时钟只在 Advance(deltaTime) 或 Step(deltaTime) 时前进，
// 回调总是在调用 Advance 的主循环上执行，不会与其他状态修改并发。
package scheduler

import (
	"container/heap"
)

// dueEpsilon 比较到期时间时的容差（秒）
// 用于吸收逐帧累加 deltaTime 带来的浮点误差
const dueEpsilon = 1e-9

// Handle 可取消的任务句柄，0 为无效句柄
type Handle uint64

type task struct {
	handle Handle
	due    float64
	seq    uint64
	// armedAt 任务被创建时所处的 Advance 序号
	// 同一次 Advance 中创建的任务不会在该次 Advance 中触发
	armedAt uint64
	fn      func()
	index   int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler 按帧推进的延迟任务调度器（非并发安全，只在主循环上使用）
type Scheduler struct {
	now     float64
	nextID  uint64
	seq     uint64
	advance uint64
	queue   taskQueue
	tasks   map[Handle]*task
}

// New 创建调度器，虚拟时钟从 0 开始
func New() *Scheduler {
	return &Scheduler{
		nextID: 1,
		tasks:  make(map[Handle]*task),
	}
}

// Now 当前虚拟时间（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending 尚未触发且未取消的任务数
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// ScheduleOnce 在 delay 秒后执行一次 fn
//
// delay 可以为 0 或负数：任务会在下一次 Advance 时触发。
// 返回的句柄可传给 Cancel。
func (s *Scheduler) ScheduleOnce(delay float64, fn func()) Handle {
	h := Handle(s.nextID)
	s.nextID++
	s.seq++

	t := &task{
		handle:  h,
		due:     s.now + delay,
		seq:     s.seq,
		armedAt: s.advance,
		fn:      fn,
	}
	s.tasks[h] = t
	heap.Push(&s.queue, t)
	return h
}

// Cancel 取消尚未触发的任务
// 已触发、已取消或未知的句柄返回 false
func (s *Scheduler) Cancel(h Handle) bool {
	t, ok := s.tasks[h]
	if !ok {
		return false
	}
	delete(s.tasks, h)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
	return true
}

// Clear 取消所有任务
func (s *Scheduler) Clear() {
	s.queue = s.queue[:0]
	s.tasks = make(map[Handle]*task)
}

// Advance 推进虚拟时钟并按 (到期时间, 创建顺序) 执行到期任务
// 等价于 Step 后紧接 RunDue
//
// 回调中新建的任务最早在下一次 Advance 触发，
// 因此即使出现 0 延迟的链式调度也不会在单帧内无限展开。
//
// 返回：本次触发的任务数
func (s *Scheduler) Advance(deltaTime float64) int {
	s.Step(deltaTime)
	return s.RunDue()
}

// Step 只推进虚拟时钟，不执行任务
//
// 帧循环中其他系统会在推进时钟与执行任务之间安排新任务
// （例如引擎状态回调里的 Play），先 Step 可以让这些任务以本帧时间为基准。
// Step 之后、RunDue 之前创建的任务属于本帧，不会在本帧的 RunDue 中触发。
func (s *Scheduler) Step(deltaTime float64) {
	s.advance++
	s.now += deltaTime
}

// RunDue 执行当前时间已到期的任务
//
// 返回：本次触发的任务数
func (s *Scheduler) RunDue() int {
	fired := 0
	var deferred []*task
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.due > s.now+dueEpsilon {
			break
		}
		heap.Pop(&s.queue)

		if next.armedAt == s.advance {
			deferred = append(deferred, next)
			continue
		}

		delete(s.tasks, next.handle)
		fired++
		next.fn()
	}

	for _, t := range deferred {
		// 回调中可能已取消该任务
		if _, alive := s.tasks[t.handle]; alive {
			heap.Push(&s.queue, t)
		}
	}
	return fired
}
