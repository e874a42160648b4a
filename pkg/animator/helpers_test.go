package animator

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/scheduler"
)

type crossFadeCall struct {
	hash       catalog.NativeHash
	transition float64
	layer      int
}

// fakeEngine 记录 CrossFade 调用，时长由测试直接指定
type fakeEngine struct {
	initial         []catalog.NativeHash
	currentDuration float64
	nextDuration    float64
	calls           []crossFadeCall
}

func newFakeEngine(initial ...catalog.AnimationID) *fakeEngine {
	e := &fakeEngine{currentDuration: 1.0, nextDuration: 1.0}
	for _, id := range initial {
		e.initial = append(e.initial, catalog.StringToHash(id.String()))
	}
	return e
}

func (e *fakeEngine) LayerCount() int { return len(e.initial) }

func (e *fakeEngine) CurrentStateHash(layer int) catalog.NativeHash { return e.initial[layer] }

func (e *fakeEngine) CurrentStateDuration(layer int) float64 { return e.currentDuration }

func (e *fakeEngine) NextStateDuration(layer int) float64 { return e.nextDuration }

func (e *fakeEngine) CrossFade(hash catalog.NativeHash, transition float64, layer int) {
	e.calls = append(e.calls, crossFadeCall{hash: hash, transition: transition, layer: layer})
}

type recordingDefaults struct {
	layers []int
}

func (r *recordingDefaults) DefaultAnimation(layer int) {
	r.layers = append(r.layers, layer)
}

// newTestController 创建已初始化的控制器
func newTestController(t *testing.T, initial ...catalog.AnimationID) (*Controller, *fakeEngine, *scheduler.Scheduler, *recordingDefaults) {
	t.Helper()
	eng := newFakeEngine(initial...)
	sched := scheduler.New()
	defaults := &recordingDefaults{}
	c := NewController(catalog.NewHashTable(), eng, sched, defaults)
	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return c, eng, sched, defaults
}

// captureLog 在测试期间捕获标准日志输出
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func hashOf(id catalog.AnimationID) catalog.NativeHash {
	return catalog.StringToHash(id.String())
}

func newTestScheduler() *scheduler.Scheduler {
	return scheduler.New()
}

// leakyScheduler 忽略 Cancel，用于验证已销毁控制器上的过期回调
type leakyScheduler struct {
	inner *scheduler.Scheduler
}

func (s *leakyScheduler) ScheduleOnce(delay float64, fn func()) scheduler.Handle {
	return s.inner.ScheduleOnce(delay, fn)
}

func (s *leakyScheduler) Cancel(h scheduler.Handle) bool {
	return false
}
