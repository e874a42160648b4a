package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/utils"
)

func newTestEngine(t *testing.T, layers int) *SimEngine {
	t.Helper()
	e := NewSimEngine(layers)
	clips := []Clip{
		{Name: "IDLE", Length: 1.0, Loop: true},
		{Name: "RUN", Length: 0.8, Loop: true},
		{Name: "ATTACK1", Length: 0.5},
		{Name: "JUMP", Length: 0.6},
		{Name: "FALL", Length: 0.4, Loop: true},
	}
	for _, c := range clips {
		if err := e.AddClip(c); err != nil {
			t.Fatalf("AddClip(%s): %v", c.Name, err)
		}
	}
	for i := 0; i < layers; i++ {
		if err := e.SetInitialState(i, "IDLE"); err != nil {
			t.Fatalf("SetInitialState(%d): %v", i, err)
		}
	}
	return e
}

func hash(name string) catalog.NativeHash {
	return catalog.StringToHash(name)
}

func TestSimEngine_InitialState(t *testing.T) {
	e := newTestEngine(t, 2)

	if e.LayerCount() != 2 {
		t.Fatalf("LayerCount: got %d, want 2", e.LayerCount())
	}
	if e.CurrentStateHash(1) != hash("IDLE") {
		t.Errorf("CurrentStateHash(1): got %d, want IDLE hash", e.CurrentStateHash(1))
	}
	if e.CurrentStateDuration(0) != 1.0 {
		t.Errorf("CurrentStateDuration: got %v, want 1.0", e.CurrentStateDuration(0))
	}
	if e.NextStateDuration(0) != 0 {
		t.Errorf("NextStateDuration without transition: got %v, want 0", e.NextStateDuration(0))
	}
	if err := e.SetInitialState(0, "DANCE"); err == nil {
		t.Error("SetInitialState with unknown clip should fail")
	}
	if err := e.SetInitialState(5, "IDLE"); err == nil {
		t.Error("SetInitialState on missing layer should fail")
	}
}

func TestSimEngine_AddClipValidation(t *testing.T) {
	e := NewSimEngine(1)
	if err := e.AddClip(Clip{Name: "", Length: 1}); err == nil {
		t.Error("empty name should fail")
	}
	if err := e.AddClip(Clip{Name: "HIT", Length: -1}); err == nil {
		t.Error("negative length should fail")
	}
	if _, ok := e.Clip("HIT"); ok {
		t.Error("rejected clip was registered")
	}
}

// TestSimEngine_ZeroCrossFade 测试零淡入立即切换当前状态
func TestSimEngine_ZeroCrossFade(t *testing.T) {
	e := newTestEngine(t, 1)

	e.CrossFade(hash("ATTACK1"), 0, 0)

	if e.CurrentStateName(0) != "ATTACK1" || e.IsInTransition(0) {
		t.Errorf("current=%s transition=%v, want ATTACK1 immediately", e.CurrentStateName(0), e.IsInTransition(0))
	}
	if e.CurrentStateDuration(0) != 0.5 {
		t.Errorf("CurrentStateDuration: got %v, want 0.5", e.CurrentStateDuration(0))
	}
}

// TestSimEngine_TimedCrossFade 测试非零淡入先排队再在淡入结束时成为当前状态
func TestSimEngine_TimedCrossFade(t *testing.T) {
	e := newTestEngine(t, 1)

	e.CrossFade(hash("RUN"), 0.2, 0)

	if e.CurrentStateName(0) != "IDLE" || e.NextStateName(0) != "RUN" {
		t.Fatalf("during transition: current=%s next=%s", e.CurrentStateName(0), e.NextStateName(0))
	}
	if e.NextStateDuration(0) != 0.8 {
		t.Errorf("NextStateDuration: got %v, want 0.8", e.NextStateDuration(0))
	}

	e.Update(0.1)
	if w := e.BlendWeight(0); math.Abs(w-0.5) > 1e-6 {
		t.Errorf("BlendWeight at half: got %v, want 0.5", w)
	}

	e.Update(0.1)
	if e.CurrentStateName(0) != "RUN" || e.IsInTransition(0) {
		t.Errorf("after transition: current=%s transition=%v", e.CurrentStateName(0), e.IsInTransition(0))
	}
	if e.BlendWeight(0) != 0 {
		t.Errorf("BlendWeight after transition: got %v, want 0", e.BlendWeight(0))
	}
	// 淡入期间下一个状态的时间同样在推进
	if math.Abs(e.StateTime(0)-0.2) > 1e-9 {
		t.Errorf("StateTime: got %v, want 0.2", e.StateTime(0))
	}
}

func TestSimEngine_BlendCurve(t *testing.T) {
	e := newTestEngine(t, 1)
	e.SetBlendCurve(utils.EaseInOutCubic)

	e.CrossFade(hash("RUN"), 0.4, 0)
	e.Update(0.1)

	if w := e.BlendWeight(0); math.Abs(w-0.0625) > 1e-6 {
		t.Errorf("cubic BlendWeight at 25%%: got %v, want 0.0625", w)
	}

	e.SetBlendCurve(nil)
	if w := e.BlendWeight(0); math.Abs(w-0.25) > 1e-6 {
		t.Errorf("nil curve should reset to linear, got %v", w)
	}
}

func TestSimEngine_NormalizedTime(t *testing.T) {
	e := newTestEngine(t, 1)

	e.Update(1.25)
	if nt := e.NormalizedTime(0); math.Abs(nt-0.25) > 1e-9 {
		t.Errorf("looping NormalizedTime: got %v, want 0.25", nt)
	}

	e.CrossFade(hash("ATTACK1"), 0, 0)
	e.Update(2.0)
	if nt := e.NormalizedTime(0); nt != 1 {
		t.Errorf("non-looping NormalizedTime: got %v, want 1", nt)
	}
}

func TestSimEngine_IgnoresInvalidCrossFade(t *testing.T) {
	e := newTestEngine(t, 1)

	e.CrossFade(hash("UNKNOWN"), 0, 0)
	e.CrossFade(hash("RUN"), 0, 3)

	if e.CurrentStateName(0) != "IDLE" {
		t.Errorf("invalid CrossFade changed state to %s", e.CurrentStateName(0))
	}
	if e.CurrentStateDuration(3) != 0 || e.CurrentStateHash(-1) != 0 {
		t.Error("out-of-range queries should return zero values")
	}
}

type eventRecorder struct {
	events []string
	onUpdate func(info StateInfo)
}

func (r *eventRecorder) OnStateEnter(info StateInfo) {
	r.events = append(r.events, "enter:"+info.Name)
}

func (r *eventRecorder) OnStateUpdate(info StateInfo) {
	r.events = append(r.events, "update:"+info.Name)
	if r.onUpdate != nil {
		r.onUpdate(info)
	}
}

func (r *eventRecorder) OnStateExit(info StateInfo) {
	r.events = append(r.events, "exit:"+info.Name)
}

// TestSimEngine_BehaviourLifecycle 测试状态行为的进入/更新/退出顺序
func TestSimEngine_BehaviourLifecycle(t *testing.T) {
	e := newTestEngine(t, 1)
	rec := &eventRecorder{}
	e.AttachBehaviour("IDLE", rec)
	e.AttachBehaviour("RUN", rec)

	e.Update(0.1)
	e.CrossFade(hash("RUN"), 0.2, 0)
	e.Update(0.1) // 淡入中：两个状态都活动
	e.Update(0.1) // 淡入完成：IDLE 退出

	want := []string{
		"enter:IDLE", "update:IDLE",
		"update:IDLE", "enter:RUN", "update:RUN",
		"exit:IDLE", "update:RUN",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events:\n got %v\nwant %v", rec.events, want)
	}
}

func TestSimEngine_BehaviourOwnerAndReentrancy(t *testing.T) {
	e := newTestEngine(t, 1)
	owner := &struct{ name string }{"brain"}
	e.SetOwner(owner)

	var seen StateInfo
	rec := &eventRecorder{}
	rec.onUpdate = func(info StateInfo) {
		seen = info
		// 回调中切换状态是安全的
		e.CrossFade(hash("JUMP"), 0, info.Layer)
	}
	e.AttachBehaviour("IDLE", rec)

	e.Update(0.016)

	if seen.Owner != owner || seen.Layer != 0 || seen.Hash != hash("IDLE") {
		t.Errorf("StateInfo: got %+v", seen)
	}
	if e.CurrentStateName(0) != "JUMP" {
		t.Errorf("current: got %s, want JUMP", e.CurrentStateName(0))
	}

	e.Update(0.016)
	if rec.events[len(rec.events)-1] != "exit:IDLE" {
		t.Errorf("expected IDLE exit on next update, got %v", rec.events)
	}
}

func TestSimEngine_InterruptedTransition(t *testing.T) {
	e := newTestEngine(t, 1)
	rec := &eventRecorder{}
	e.AttachBehaviour("RUN", rec)

	e.CrossFade(hash("RUN"), 0.5, 0)
	e.Update(0.1)
	e.CrossFade(hash("JUMP"), 0.5, 0)
	e.Update(0.1)

	if e.NextStateName(0) != "JUMP" || e.CurrentStateName(0) != "IDLE" {
		t.Errorf("current=%s next=%s", e.CurrentStateName(0), e.NextStateName(0))
	}
	want := []string{"enter:RUN", "update:RUN", "exit:RUN"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events: got %v, want %v", rec.events, want)
	}
}
