package systems

import (
	"fmt"
	"log"

	"github.com/decker502/pvz-animator/pkg/animator"
	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/components"
	"github.com/decker502/pvz-animator/pkg/config"
	"github.com/decker502/pvz-animator/pkg/ecs"
	"github.com/decker502/pvz-animator/pkg/scheduler"
)

// AnimatorSystem 驱动所有带动画控制器的实体
//
// 每帧顺序：
//  1. 推进共享调度器的时钟（此时不执行任务）
//  2. 推进每个实体的引擎（派发状态行为，条件触发器在此提交）
//  3. 执行到期任务（动画链的后续项在此提交）
//  4. 销毁已标记删除实体的控制器并清理
//
// 第 1 步在引擎之前，使触发器安排的链以本帧时间为基准，
// 与帧外（如按键）发起的链计时一致。
type AnimatorSystem struct {
	entityManager *ecs.EntityManager
	table         *catalog.HashTable
	scheduler     *scheduler.Scheduler
}

// NewAnimatorSystem 创建动画控制器系统
// 所有实体共享同一个哈希表和调度器
func NewAnimatorSystem(em *ecs.EntityManager) *AnimatorSystem {
	return &AnimatorSystem{
		entityManager: em,
		table:         catalog.NewInitializedHashTable(),
		scheduler:     scheduler.New(),
	}
}

// Scheduler 共享调度器
func (s *AnimatorSystem) Scheduler() *scheduler.Scheduler {
	return s.scheduler
}

// Spawn 按配置创建一个带动画控制器的实体
//
// 参数：
//   - cfg: 已验证的动画控制器配置
//   - name: 实体名称
//
// 返回：
//   - ecs.EntityID: 新实体 ID
//   - error: 引擎组装或控制器初始化错误
func (s *AnimatorSystem) Spawn(cfg *config.AnimatorConfig, name string) (ecs.EntityID, error) {
	eng, err := config.NewEngine(cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to build engine for '%s': %w", name, err)
	}

	var ctrl *animator.Controller
	defaults := animator.DefaultAnimatorFunc(func(layer int) {
		cfg.PlayDefault(ctrl, layer)
	})
	ctrl = animator.NewController(s.table, eng, s.scheduler, defaults)
	if err := ctrl.Initialize(); err != nil {
		return 0, fmt.Errorf("failed to initialize animator for '%s': %w", name, err)
	}
	eng.SetOwner(ctrl)

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.AnimatorComponent{
		Name:       name,
		Controller: ctrl,
		Engine:     eng,
		Config:     cfg,
	})
	log.Printf("[AnimatorSystem] Spawned '%s' (entity %d, %d layers)", name, id, ctrl.LayerCount())
	return id, nil
}

// Find 按名称查找实体
func (s *AnimatorSystem) Find(name string) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.AnimatorComponent](s.entityManager) {
		if anim, ok := ecs.GetComponent[*components.AnimatorComponent](s.entityManager, id); ok && anim.Name == name {
			return id, true
		}
	}
	return 0, false
}

// Update 推进一帧
func (s *AnimatorSystem) Update(deltaTime float64) {
	s.scheduler.Step(deltaTime)

	entities := ecs.GetEntitiesWith1[*components.AnimatorComponent](s.entityManager)
	for _, id := range entities {
		anim, ok := ecs.GetComponent[*components.AnimatorComponent](s.entityManager, id)
		if !ok {
			continue
		}
		anim.Engine.Update(deltaTime)
	}

	s.scheduler.RunDue()

	for _, id := range s.entityManager.MarkedEntities() {
		if anim, ok := ecs.GetComponent[*components.AnimatorComponent](s.entityManager, id); ok {
			anim.Controller.Destroy()
		}
	}
	s.entityManager.RemoveMarkedEntities()
}
