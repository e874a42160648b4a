package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/pvz-animator/pkg/catalog"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := NewApp(Config{
		Verbose:    true,
		Data:       os.DirFS(filepath.Join("..", "..")),
		ConfigPath: "data/animator.yaml",
		EntityName: "hero",
	})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return a
}

func TestNewApp(t *testing.T) {
	a := newTestApp(t)

	if a.animator() == nil {
		t.Fatal("demo entity has no animator")
	}
	if a.store.Persistent() {
		t.Error("empty AppName should use the in-memory store")
	}

	text := a.StatusText()
	for _, want := range []string{"hero", "layer 0: IDLE", "layer 1: IDLE", "GROUNDED = false", "[Space] jump"} {
		if !strings.Contains(text, want) {
			t.Errorf("StatusText missing %q:\n%s", want, text)
		}
	}
}

func TestNewApp_MissingConfig(t *testing.T) {
	_, err := NewApp(Config{Verbose: true, Data: os.DirFS(t.TempDir()), ConfigPath: "animator.yaml", EntityName: "hero"})
	if err == nil {
		t.Error("missing config should fail")
	}
}

// TestApp_Actions 测试按键动作映射到控制器
func TestApp_Actions(t *testing.T) {
	a := newTestApp(t)
	ctrl := a.animator().Controller

	a.playChain(0, "jump")
	if ctrl.GetCurrentAnimation(0) != catalog.JUMP || !ctrl.IsLocked(0) {
		t.Errorf("jump: current=%v locked=%v", ctrl.GetCurrentAnimation(0), ctrl.IsLocked(0))
	}

	a.toggle(catalog.FALLING)
	if !ctrl.GetBool(catalog.FALLING) || a.lastAction != "FALLING = true" {
		t.Errorf("toggle: value=%v action=%q", ctrl.GetBool(catalog.FALLING), a.lastAction)
	}

	// 条件触发器：JUMP -> FALL
	for i := 0; i < 3; i++ {
		a.system.Update(1.0 / TPS)
	}
	if ctrl.GetCurrentAnimation(0) != catalog.FALL {
		t.Errorf("after FALLING: got %v, want FALL", ctrl.GetCurrentAnimation(0))
	}

	// JUMP 退出后 FALL 保持触发链设置的锁
	for i := 0; i < 10; i++ {
		a.system.Update(1.0 / TPS)
	}
	if ctrl.GetCurrentAnimation(0) != catalog.FALL || !ctrl.IsLocked(0) {
		t.Errorf("falling: current=%v locked=%v, want FALL locked", ctrl.GetCurrentAnimation(0), ctrl.IsLocked(0))
	}

	ctrl.SetLocked(0, false)
	a.play(0, catalog.RUN, false, 0.2)
	if ctrl.GetCurrentAnimation(0) != catalog.RUN {
		t.Errorf("unlocked play: got %v, want RUN", ctrl.GetCurrentAnimation(0))
	}
}

func TestApp_ToggleLock(t *testing.T) {
	a := newTestApp(t)
	ctrl := a.animator().Controller

	a.toggleLock(1)
	a.play(1, catalog.RUN, false, 0)
	if ctrl.GetCurrentAnimation(1) != catalog.IDLE || a.lastAction != "play RUN on layer 1: false" {
		t.Errorf("locked play: current=%v action=%q", ctrl.GetCurrentAnimation(1), a.lastAction)
	}

	a.toggleLock(1)
	a.play(1, catalog.RUN, false, 0)
	if ctrl.GetCurrentAnimation(1) != catalog.RUN {
		t.Errorf("unlocked play: got %v, want RUN", ctrl.GetCurrentAnimation(1))
	}
}

// TestApp_SaveRestore 测试快照保存后新实例恢复参数
func TestApp_SaveRestore(t *testing.T) {
	a := newTestApp(t)
	a.toggle(catalog.GROUNDED)
	if err := a.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 复用同一个存储模拟重新启动
	b := newTestApp(t)
	b.store = a.store
	b.restore()
	if !b.animator().Controller.GetBool(catalog.GROUNDED) {
		t.Error("GROUNDED should be restored")
	}
}
