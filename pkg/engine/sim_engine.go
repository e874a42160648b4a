// Package engine 提供进程内模拟的动画引擎 SimEngine
//
// SimEngine 只关心状态时间线：每层一个当前状态，交叉淡入期间再加一个下一个状态。
// 它不做骨骼混合，也不渲染；片段时长来自配置或 Reanim 文件。
package engine

import (
	"fmt"
	"log"

	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/utils"
)

// blendEpsilon 判断淡入完成时的容差（秒）
const blendEpsilon = 1e-9

// Clip 动画片段定义
type Clip struct {
	// Name 状态名，如 "IDLE"、"ATTACK1"
	Name string
	// Length 片段时长（秒）
	Length float64
	// Loop 是否循环（影响归一化时间）
	Loop bool
}

type playingState struct {
	clip    Clip
	hash    catalog.NativeHash
	time    float64
	entered bool
}

type layerPlayback struct {
	current *playingState
	next    *playingState

	blendDuration float64
	blendElapsed  float64

	// exited 已离开、等待派发 OnStateExit 的状态
	exited []*playingState
}

// SimEngine 模拟动画引擎（非并发安全，只在主循环上使用）
type SimEngine struct {
	clips      map[catalog.NativeHash]Clip
	layers     []layerPlayback
	behaviours map[catalog.NativeHash][]StateBehaviour
	blendCurve func(float64) float64
	owner      any
}

// NewSimEngine 创建拥有 layerCount 个层的模拟引擎
func NewSimEngine(layerCount int) *SimEngine {
	if layerCount < 0 {
		layerCount = 0
	}
	return &SimEngine{
		clips:      make(map[catalog.NativeHash]Clip),
		layers:     make([]layerPlayback, layerCount),
		behaviours: make(map[catalog.NativeHash][]StateBehaviour),
		blendCurve: utils.EaseLinear,
	}
}

// AddClip 注册动画片段
func (e *SimEngine) AddClip(clip Clip) error {
	if clip.Name == "" {
		return fmt.Errorf("clip name is empty")
	}
	if clip.Length < 0 {
		return fmt.Errorf("clip %s has negative length %.3f", clip.Name, clip.Length)
	}
	e.clips[catalog.StringToHash(clip.Name)] = clip
	return nil
}

// Clip 按名称查询片段
func (e *SimEngine) Clip(name string) (Clip, bool) {
	clip, ok := e.clips[catalog.StringToHash(name)]
	return clip, ok
}

// SetInitialState 设置层的初始状态（不经过淡入）
func (e *SimEngine) SetInitialState(layer int, name string) error {
	lp, err := e.layer(layer)
	if err != nil {
		return err
	}
	hash := catalog.StringToHash(name)
	clip, ok := e.clips[hash]
	if !ok {
		return fmt.Errorf("initial state %s is not a registered clip", name)
	}
	lp.current = &playingState{clip: clip, hash: hash}
	lp.next = nil
	lp.blendDuration, lp.blendElapsed = 0, 0
	return nil
}

// SetBlendCurve 设置淡入权重曲线（默认线性）
func (e *SimEngine) SetBlendCurve(curve func(float64) float64) {
	if curve == nil {
		curve = utils.EaseLinear
	}
	e.blendCurve = curve
}

// SetOwner 设置引擎所属对象，会通过 StateInfo.Owner 传给状态行为
func (e *SimEngine) SetOwner(owner any) {
	e.owner = owner
}

// AttachBehaviour 在指定状态上挂载行为
func (e *SimEngine) AttachBehaviour(stateName string, b StateBehaviour) {
	hash := catalog.StringToHash(stateName)
	e.behaviours[hash] = append(e.behaviours[hash], b)
}

// ==================================================================
// animator.Engine 实现
// ==================================================================

// LayerCount 层数
func (e *SimEngine) LayerCount() int {
	return len(e.layers)
}

// CurrentStateHash 当前状态哈希，层上没有状态时返回 0
func (e *SimEngine) CurrentStateHash(layer int) catalog.NativeHash {
	lp, err := e.layer(layer)
	if err != nil || lp.current == nil {
		return 0
	}
	return lp.current.hash
}

// CurrentStateDuration 当前状态的片段时长
func (e *SimEngine) CurrentStateDuration(layer int) float64 {
	lp, err := e.layer(layer)
	if err != nil || lp.current == nil {
		return 0
	}
	return lp.current.clip.Length
}

// NextStateDuration 正在淡入的状态的片段时长，没有淡入时返回 0
func (e *SimEngine) NextStateDuration(layer int) float64 {
	lp, err := e.layer(layer)
	if err != nil || lp.next == nil {
		return 0
	}
	return lp.next.clip.Length
}

// CrossFade 向目标状态交叉淡入
//
// transitionDuration <= 0 时立即切换为当前状态；
// 否则目标成为下一个状态，在 transitionDuration 秒内完成混合。
// 淡入过程中再次 CrossFade 会打断之前的下一个状态。
func (e *SimEngine) CrossFade(hash catalog.NativeHash, transitionDuration float64, layer int) {
	lp, err := e.layer(layer)
	if err != nil {
		log.Printf("[SimEngine] CrossFade ignored: %v", err)
		return
	}
	clip, ok := e.clips[hash]
	if !ok {
		log.Printf("[SimEngine] CrossFade ignored: unknown state hash %d on layer %d", hash, layer)
		return
	}

	target := &playingState{clip: clip, hash: hash}
	if lp.next != nil {
		lp.exited = append(lp.exited, lp.next)
		lp.next = nil
	}

	if transitionDuration <= 0 {
		if lp.current != nil {
			lp.exited = append(lp.exited, lp.current)
		}
		lp.current = target
		lp.blendDuration, lp.blendElapsed = 0, 0
		return
	}

	lp.next = target
	lp.blendDuration = transitionDuration
	lp.blendElapsed = 0
}

// ==================================================================
// 查询（调试显示用）
// ==================================================================

// CurrentStateName 当前状态名
func (e *SimEngine) CurrentStateName(layer int) string {
	lp, err := e.layer(layer)
	if err != nil || lp.current == nil {
		return ""
	}
	return lp.current.clip.Name
}

// NextStateName 正在淡入的状态名
func (e *SimEngine) NextStateName(layer int) string {
	lp, err := e.layer(layer)
	if err != nil || lp.next == nil {
		return ""
	}
	return lp.next.clip.Name
}

// StateTime 当前状态已播放时间（秒）
func (e *SimEngine) StateTime(layer int) float64 {
	lp, err := e.layer(layer)
	if err != nil || lp.current == nil {
		return 0
	}
	return lp.current.time
}

// NormalizedTime 当前状态的归一化进度
// 循环片段返回 [0,1) 内的循环进度，非循环片段钳制到 1
func (e *SimEngine) NormalizedTime(layer int) float64 {
	lp, err := e.layer(layer)
	if err != nil || lp.current == nil || lp.current.clip.Length <= 0 {
		return 0
	}
	t := lp.current.time / lp.current.clip.Length
	if lp.current.clip.Loop {
		return t - float64(int(t))
	}
	if t > 1 {
		return 1
	}
	return t
}

// BlendWeight 下一个状态的混合权重，没有淡入时返回 0
func (e *SimEngine) BlendWeight(layer int) float64 {
	lp, err := e.layer(layer)
	if err != nil || lp.next == nil || lp.blendDuration <= 0 {
		return 0
	}
	progress := lp.blendElapsed / lp.blendDuration
	if progress > 1 {
		progress = 1
	}
	return e.blendCurve(progress)
}

// IsInTransition 层是否处于淡入中
func (e *SimEngine) IsInTransition(layer int) bool {
	lp, err := e.layer(layer)
	return err == nil && lp.next != nil
}

// ==================================================================
// 帧更新
// ==================================================================

type pendingCallback struct {
	behaviour StateBehaviour
	kind      int
	info      StateInfo
}

const (
	callbackExit = iota
	callbackEnter
	callbackUpdate
)

// Update 推进所有层的状态时间与淡入进度，并派发状态行为回调
//
// 回调在所有层推进完成后统一派发，行为中可以安全地调用 CrossFade
// （新的状态会在下一次 Update 中派发 OnStateEnter）。
func (e *SimEngine) Update(deltaTime float64) {
	var callbacks []pendingCallback

	for i := range e.layers {
		lp := &e.layers[i]

		if lp.current != nil {
			lp.current.time += deltaTime
		}
		if lp.next != nil {
			lp.next.time += deltaTime
			lp.blendElapsed += deltaTime
			if lp.blendElapsed >= lp.blendDuration-blendEpsilon {
				if lp.current != nil {
					lp.exited = append(lp.exited, lp.current)
				}
				lp.current = lp.next
				lp.next = nil
				lp.blendDuration, lp.blendElapsed = 0, 0
			}
		}

		for _, st := range lp.exited {
			if st.entered {
				callbacks = e.appendCallbacks(callbacks, callbackExit, i, st)
			}
		}
		lp.exited = lp.exited[:0]

		for _, st := range []*playingState{lp.current, lp.next} {
			if st == nil {
				continue
			}
			if !st.entered {
				st.entered = true
				callbacks = e.appendCallbacks(callbacks, callbackEnter, i, st)
			}
			callbacks = e.appendCallbacks(callbacks, callbackUpdate, i, st)
		}
	}

	for _, cb := range callbacks {
		switch cb.kind {
		case callbackExit:
			cb.behaviour.OnStateExit(cb.info)
		case callbackEnter:
			cb.behaviour.OnStateEnter(cb.info)
		case callbackUpdate:
			cb.behaviour.OnStateUpdate(cb.info)
		}
	}
}

func (e *SimEngine) appendCallbacks(out []pendingCallback, kind, layer int, st *playingState) []pendingCallback {
	for _, b := range e.behaviours[st.hash] {
		out = append(out, pendingCallback{
			behaviour: b,
			kind:      kind,
			info: StateInfo{
				Layer: layer,
				Hash:  st.hash,
				Name:  st.clip.Name,
				Owner: e.owner,
			},
		})
	}
	return out
}

func (e *SimEngine) layer(layer int) (*layerPlayback, error) {
	if layer < 0 || layer >= len(e.layers) {
		return nil, fmt.Errorf("layer %d out of range (layers: %d)", layer, len(e.layers))
	}
	return &e.layers[layer], nil
}
