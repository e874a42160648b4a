// Package app 动画控制器演示程序的 ebiten 包装器
//
// 该包把初始化逻辑从 main 包提取出来：加载配置、创建实体、
// 恢复上次保存的参数，并把键盘输入映射为参数和动画链。
package app

import (
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/pvz-animator/pkg/animator"
	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/components"
	"github.com/decker502/pvz-animator/pkg/config"
	"github.com/decker502/pvz-animator/pkg/ecs"
	"github.com/decker502/pvz-animator/pkg/game"
	"github.com/decker502/pvz-animator/pkg/systems"
)

// 窗口尺寸
const (
	WindowWidth  = 480
	WindowHeight = 320
)

// TPS 逻辑帧率
const TPS = 60

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Data 配置与 reanim 文件所在的文件系统（通常是嵌入资源）
	Data fs.FS
	// ConfigPath 动画控制器配置在 Data 中的路径
	ConfigPath string
	// EntityName 演示实体名称，也是快照存储的键
	EntityName string
	// AppName gdata 存储目录名，为空则不持久化
	AppName string
}

// keyBinding 按键到动作的映射
type keyBinding struct {
	key   ebiten.Key
	label string
	do    func(a *App)
}

// App 演示应用，实现 ebiten.Game 接口
type App struct {
	entityManager *ecs.EntityManager
	system        *systems.AnimatorSystem
	store         *game.SnapshotStore
	entity        ecs.EntityID
	name          string
	bindings      []keyBinding
	lastAction    string
}

// NewApp 创建并初始化演示应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	animCfg, err := config.LoadAnimatorConfigFS(cfg.Data, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("动画配置加载失败: %w", err)
	}

	em := ecs.NewEntityManager()
	system := systems.NewAnimatorSystem(em)
	id, err := system.Spawn(animCfg, cfg.EntityName)
	if err != nil {
		return nil, fmt.Errorf("实体创建失败: %w", err)
	}

	a := &App{
		entityManager: em,
		system:        system,
		store:         game.NewSnapshotStore(openGdata(cfg.AppName)),
		entity:        id,
		name:          cfg.EntityName,
		bindings:      defaultBindings(),
	}
	a.restore()
	return a, nil
}

// openGdata 打开 gdata 存储，失败时返回 nil（降级模式）
func openGdata(appName string) *gdata.Manager {
	if appName == "" {
		return nil
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (snapshots kept in memory)", err)
		return nil
	}
	return m
}

func defaultBindings() []keyBinding {
	return []keyBinding{
		{ebiten.KeySpace, "jump", func(a *App) { a.playChain(0, "jump") }},
		{ebiten.KeyC, "combo", func(a *App) { a.playChain(0, "combo") }},
		{ebiten.KeyA, "attack (upper)", func(a *App) { a.playChain(1, "attack") }},
		{ebiten.KeyR, "run", func(a *App) { a.play(0, catalog.RUN, false, 0.2) }},
		{ebiten.KeyI, "idle", func(a *App) { a.play(0, catalog.IDLE, false, 0.2) }},
		{ebiten.KeyF, "toggle FALLING", func(a *App) { a.toggle(catalog.FALLING) }},
		{ebiten.KeyG, "toggle GROUNDED", func(a *App) { a.toggle(catalog.GROUNDED) }},
		{ebiten.KeyL, "toggle lock", func(a *App) { a.toggleLock(0) }},
		{ebiten.KeyS, "save", func(a *App) { a.save() }},
	}
}

func (a *App) animator() *components.AnimatorComponent {
	anim, _ := ecs.GetComponent[*components.AnimatorComponent](a.entityManager, a.entity)
	return anim
}

func (a *App) playChain(layer int, name string) {
	ok := a.animator().PlayChain(layer, name)
	a.lastAction = fmt.Sprintf("chain %s on layer %d: %v", name, layer, ok)
}

func (a *App) play(layer int, id catalog.AnimationID, lock bool, crossfade float64) {
	ok := a.animator().Controller.Play(layer, animator.NewAnimationData(id, lock, crossfade))
	a.lastAction = fmt.Sprintf("play %s on layer %d: %v", id, layer, ok)
}

func (a *App) toggle(id catalog.ParameterID) {
	ctrl := a.animator().Controller
	ctrl.SetBool(id, !ctrl.GetBool(id))
	a.lastAction = fmt.Sprintf("%s = %v", id, ctrl.GetBool(id))
}

func (a *App) toggleLock(layer int) {
	ctrl := a.animator().Controller
	ctrl.SetLocked(layer, !ctrl.IsLocked(layer))
	a.lastAction = fmt.Sprintf("layer %d locked = %v", layer, ctrl.IsLocked(layer))
}

func (a *App) save() {
	if err := a.Save(); err != nil {
		a.lastAction = err.Error()
		return
	}
	a.lastAction = "snapshot saved"
}

// restore 恢复上次保存的参数值
func (a *App) restore() {
	if !a.store.Exists(a.name) {
		return
	}
	snapshot, err := a.store.Load(a.name)
	if err != nil {
		log.Printf("[App] Warning: %v", err)
		return
	}
	n := a.animator().Controller.RestoreParameters(snapshot)
	log.Printf("[App] Restored %d parameters for '%s'", n, a.name)
}

// Save 保存当前控制器快照
// 用于在程序退出时调用
func (a *App) Save() error {
	return a.store.Save(a.name, a.animator().Controller.Snapshot())
}

// Update 更新逻辑
// 每个 tick 调用一次；Esc 退出
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, b := range a.bindings {
		if inpututil.IsKeyJustPressed(b.key) {
			b.do(a)
		}
	}
	a.system.Update(1.0 / TPS)
	return nil
}

// Draw 绘制各层和参数的调试信息
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 32, G: 40, B: 48, A: 255})
	ebitenutil.DebugPrint(screen, a.StatusText())
}

// StatusText 调试面板文本
func (a *App) StatusText() string {
	anim := a.animator()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  t=%.2fs  pending=%d\n\n", a.name, a.system.Scheduler().Now(), a.system.Scheduler().Pending())

	snapshot := anim.Controller.Snapshot()
	for _, l := range snapshot.Layers {
		fmt.Fprintf(&sb, "layer %d: %-8s locked=%-5v chain=%-5v engine=%s",
			l.Layer, l.Animation, l.Locked, l.ChainPending, anim.Engine.CurrentStateName(l.Layer))
		if next := anim.Engine.NextStateName(l.Layer); next != "" {
			fmt.Fprintf(&sb, " -> %s (%.0f%%)", next, anim.Engine.BlendWeight(l.Layer)*100)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	for _, p := range snapshot.Parameters {
		fmt.Fprintf(&sb, "%s = %v\n", p.Name, p.Value)
	}

	sb.WriteString("\n")
	for _, b := range a.bindings {
		fmt.Fprintf(&sb, "[%s] %s  ", b.key, b.label)
	}
	if a.lastAction != "" {
		fmt.Fprintf(&sb, "\n\n> %s", a.lastAction)
	}
	return sb.String()
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}
