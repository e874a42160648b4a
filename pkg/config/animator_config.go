package config

import (
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/pvz-animator/internal/reanim"
	"github.com/decker502/pvz-animator/pkg/animator"
	"github.com/decker502/pvz-animator/pkg/catalog"
	"github.com/decker502/pvz-animator/pkg/engine"
	"github.com/decker502/pvz-animator/pkg/utils"
)

// AnimatorConfig 动画控制器配置文件的顶层结构
// 描述一个带动画对象的层、片段、条件触发器和命名动画链
type AnimatorConfig struct {
	// BlendCurve 交叉淡入曲线（linear / in_cubic / out_cubic / cubic / smoothstep），默认 linear
	BlendCurve string `yaml:"blend_curve,omitempty"`

	// Layers 动画层列表，顺序即层索引
	Layers []LayerConfig `yaml:"layers"`

	// Clips 动画片段（引擎状态）列表
	Clips []ClipConfig `yaml:"clips"`

	// Triggers 挂在引擎状态上的条件触发器
	Triggers []TriggerConfig `yaml:"triggers,omitempty"`

	// Chains 命名动画链，代码中按名称引用
	Chains map[string][]ChainEntry `yaml:"chains,omitempty"`

	// baseDir reanim 相对路径的基准目录
	baseDir string
	// fsys 非 nil 时从该文件系统读取 reanim（嵌入资源）
	fsys fs.FS
}

// LayerConfig 单个动画层
type LayerConfig struct {
	// Name 层名称（调试显示用）
	Name string `yaml:"name"`

	// InitialState 引擎中该层的初始状态（片段名）
	InitialState string `yaml:"initial_state"`

	// DefaultAnimation 播放 RESET 时回退到的动画（可选）
	DefaultAnimation string `yaml:"default_animation,omitempty"`

	// DefaultCrossfade 回退到默认动画时的淡入时长（秒）
	DefaultCrossfade float64 `yaml:"default_crossfade,omitempty"`
}

// ClipConfig 动画片段
// 时长二选一：直接给出 length，或从 reanim 文件的动画定义轨道推导
type ClipConfig struct {
	// Name 片段名，必须是目录中的动画名（如 IDLE）
	Name string `yaml:"name"`

	// Length 片段时长（秒）
	Length float64 `yaml:"length,omitempty"`

	// Reanim reanim 文件路径（相对于配置文件所在目录）
	Reanim string `yaml:"reanim,omitempty"`

	// Track 动画定义轨道名，默认 "anim_" + 小写片段名
	Track string `yaml:"track,omitempty"`

	// Loop 是否循环
	Loop bool `yaml:"loop,omitempty"`
}

// TriggerConfig 条件触发器
// 挂在 State 上，参数 Parameter 等于 Target 时解锁该层并播放 Chain
type TriggerConfig struct {
	State     string       `yaml:"state"`
	Parameter string       `yaml:"parameter"`
	Target    bool         `yaml:"target"`
	Chain     []ChainEntry `yaml:"chain"`
}

// ChainEntry 动画链中的一项
type ChainEntry struct {
	Animation string  `yaml:"animation"`
	Lock      bool    `yaml:"lock,omitempty"`
	Crossfade float64 `yaml:"crossfade,omitempty"`
}

// LoadAnimatorConfig 从 YAML 文件加载动画控制器配置
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *AnimatorConfig: 解析后的配置对象，reanim 相对路径以配置文件所在目录为基准
//   - error: 加载、解析或验证错误
func LoadAnimatorConfig(path string) (*AnimatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	config, err := ParseAnimatorConfig(data)
	if err != nil {
		return nil, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	config.baseDir = filepath.Dir(path)
	return config, nil
}

// LoadAnimatorConfigFS 从文件系统（如 embed.FS）加载配置
// reanim 相对路径以配置文件在 fsys 中的目录为基准，并同样从 fsys 读取
func LoadAnimatorConfigFS(fsys fs.FS, name string) (*AnimatorConfig, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", name, err)
	}

	config, err := ParseAnimatorConfig(data)
	if err != nil {
		return nil, fmt.Errorf("配置文件 %s: %w", name, err)
	}
	config.fsys = fsys
	config.baseDir = path.Dir(name)
	return config, nil
}

// ParseAnimatorConfig 从内存数据解析配置（用于嵌入资源）
// reanim 相对路径以当前工作目录为基准
func ParseAnimatorConfig(data []byte) (*AnimatorConfig, error) {
	var config AnimatorConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("验证失败: %w", err)
	}
	return &config, nil
}

// validateConfig 验证配置的完整性和正确性
// 名称统一规范化为目录中的写法（大写）
func validateConfig(config *AnimatorConfig) error {
	if _, err := utils.BlendCurve(config.BlendCurve); err != nil {
		return err
	}

	if len(config.Layers) == 0 {
		return fmt.Errorf("至少需要一个动画层")
	}

	if len(config.Clips) == 0 {
		return fmt.Errorf("至少需要一个动画片段")
	}
	clips := make(map[string]bool, len(config.Clips))
	for i := range config.Clips {
		clip := &config.Clips[i]
		name, err := canonicalAnimation(clip.Name)
		if err != nil {
			return fmt.Errorf("片段 #%d: %w", i, err)
		}
		if clips[name] {
			return fmt.Errorf("片段 '%s' 重复定义", name)
		}
		clip.Name = name
		clips[name] = true

		hasLength := clip.Length > 0
		hasReanim := clip.Reanim != ""
		if hasLength == hasReanim {
			return fmt.Errorf("片段 '%s' 必须且只能指定 'length' 或 'reanim' 之一", name)
		}
		if math.IsNaN(clip.Length) || math.IsInf(clip.Length, 0) {
			return fmt.Errorf("片段 '%s' 的时长无效", name)
		}
		if hasReanim && clip.Track == "" {
			clip.Track = "anim_" + strings.ToLower(name)
		}
	}

	for i := range config.Layers {
		layer := &config.Layers[i]
		if layer.InitialState == "" {
			return fmt.Errorf("动画层 #%d 缺少 'initial_state' 字段", i)
		}
		name, err := canonicalAnimation(layer.InitialState)
		if err != nil {
			return fmt.Errorf("动画层 #%d: %w", i, err)
		}
		if !clips[name] {
			return fmt.Errorf("动画层 #%d 的初始状态 '%s' 没有对应片段", i, name)
		}
		layer.InitialState = name

		if layer.DefaultAnimation != "" {
			if layer.DefaultAnimation, err = canonicalAnimation(layer.DefaultAnimation); err != nil {
				return fmt.Errorf("动画层 #%d 的默认动画: %w", i, err)
			}
		}
		if layer.DefaultCrossfade < 0 {
			return fmt.Errorf("动画层 #%d 的默认淡入时长不能为负", i)
		}
	}

	for i := range config.Triggers {
		trigger := &config.Triggers[i]
		name, err := canonicalAnimation(trigger.State)
		if err != nil {
			return fmt.Errorf("触发器 #%d: %w", i, err)
		}
		if !clips[name] {
			return fmt.Errorf("触发器 #%d 挂载的状态 '%s' 没有对应片段", i, name)
		}
		trigger.State = name

		if _, err := catalog.ParseParameter(trigger.Parameter); err != nil {
			return fmt.Errorf("触发器 #%d: %w", i, err)
		}
		if len(trigger.Chain) == 0 {
			return fmt.Errorf("触发器 #%d 的 'chain' 列表为空", i)
		}
		if _, err := BuildChain(trigger.Chain); err != nil {
			return fmt.Errorf("触发器 #%d: %w", i, err)
		}
	}

	for name, entries := range config.Chains {
		if len(entries) == 0 {
			return fmt.Errorf("动画链 '%s' 为空", name)
		}
		if _, err := BuildChain(entries); err != nil {
			return fmt.Errorf("动画链 '%s': %w", name, err)
		}
	}

	return nil
}

// canonicalAnimation 解析动画名并返回目录写法
// RESET 是控制器哨兵值，不能作为引擎状态
func canonicalAnimation(name string) (string, error) {
	id, err := catalog.ParseAnimation(name)
	if err != nil {
		return "", err
	}
	if id == catalog.RESET {
		return "", fmt.Errorf("'%s' 不能用作动画状态", name)
	}
	return id.String(), nil
}

// BuildChain 把配置中的链转换为动画描述链
// 允许 RESET 作为链中的一项（回退到默认动画）
func BuildChain(entries []ChainEntry) (*animator.AnimationData, error) {
	data, err := chainData(entries)
	if err != nil {
		return nil, err
	}
	return animator.Chain(data...), nil
}

func chainData(entries []ChainEntry) ([]animator.AnimationData, error) {
	data := make([]animator.AnimationData, len(entries))
	for i, e := range entries {
		id, err := catalog.ParseAnimation(e.Animation)
		if err != nil {
			return nil, fmt.Errorf("第 %d 项: %w", i, err)
		}
		if e.Crossfade < 0 || math.IsNaN(e.Crossfade) || math.IsInf(e.Crossfade, 0) {
			return nil, fmt.Errorf("第 %d 项的淡入时长 %v 无效", i, e.Crossfade)
		}
		data[i] = animator.AnimationData{Animation: id, LockLayer: e.Lock, Crossfade: e.Crossfade}
	}
	return data, nil
}

// Chain 按名称构建命名动画链，每次调用返回新的链
func (c *AnimatorConfig) Chain(name string) (*animator.AnimationData, error) {
	entries, ok := c.Chains[name]
	if !ok {
		return nil, fmt.Errorf("动画链 '%s' 不存在", name)
	}
	return BuildChain(entries)
}

// PlayDefault 在指定层上播放配置的默认动画
// 作为控制器的 RESET 回退策略使用，未配置默认动画的层什么都不做
func (c *AnimatorConfig) PlayDefault(brain animator.Brain, layer int) {
	if layer < 0 || layer >= len(c.Layers) || c.Layers[layer].DefaultAnimation == "" {
		log.Printf("[AnimatorConfig] Layer %d has no default animation", layer)
		return
	}
	l := c.Layers[layer]
	id, err := catalog.ParseAnimation(l.DefaultAnimation)
	if err != nil {
		log.Printf("[AnimatorConfig] Layer %d: %v", layer, err)
		return
	}
	brain.Play(layer, animator.NewAnimationData(id, false, l.DefaultCrossfade))
}

// ResolvePath 解析 reanim 文件路径
func (c *AnimatorConfig) ResolvePath(name string) string {
	if c.fsys != nil {
		return path.Join(c.baseDir, name)
	}
	if filepath.IsAbs(name) || c.baseDir == "" {
		return name
	}
	return filepath.Join(c.baseDir, name)
}

// NewEngine 按配置组装模拟引擎：片段、各层初始状态、淡入曲线和条件触发器
// 每次调用创建新的触发器实例（触发器绑定到单个控制器）
func NewEngine(c *AnimatorConfig) (*engine.SimEngine, error) {
	e := engine.NewSimEngine(len(c.Layers))

	curve, err := utils.BlendCurve(c.BlendCurve)
	if err != nil {
		return nil, err
	}
	e.SetBlendCurve(curve)

	for _, clip := range c.Clips {
		length := clip.Length
		if clip.Reanim != "" {
			if length, err = c.reanimLength(clip); err != nil {
				return nil, err
			}
		}
		if err := e.AddClip(engine.Clip{Name: clip.Name, Length: length, Loop: clip.Loop}); err != nil {
			return nil, fmt.Errorf("片段 '%s': %w", clip.Name, err)
		}
	}

	for i, layer := range c.Layers {
		if err := e.SetInitialState(i, layer.InitialState); err != nil {
			return nil, fmt.Errorf("动画层 #%d: %w", i, err)
		}
	}

	for _, t := range c.Triggers {
		param, err := catalog.ParseParameter(t.Parameter)
		if err != nil {
			return nil, err
		}
		entries, err := chainData(t.Chain)
		if err != nil {
			return nil, err
		}
		e.AttachBehaviour(t.State, animator.NewParameterTrigger(param, t.Target, entries...))
	}

	return e, nil
}

func (c *AnimatorConfig) reanimLength(clip ClipConfig) (float64, error) {
	name := c.ResolvePath(clip.Reanim)

	var x *reanim.ReanimXML
	var err error
	if c.fsys != nil {
		var data []byte
		if data, err = fs.ReadFile(c.fsys, name); err == nil {
			x, err = reanim.ParseReanim(data)
		}
	} else {
		x, err = reanim.ParseReanimFile(name)
	}
	if err != nil {
		return 0, fmt.Errorf("片段 '%s': %w", clip.Name, err)
	}

	length, err := x.AnimationLength(clip.Track)
	if err != nil {
		return 0, fmt.Errorf("片段 '%s' (%s): %w", clip.Name, name, err)
	}
	log.Printf("[AnimatorConfig] Clip %s: %.3fs from %s#%s", clip.Name, length, name, clip.Track)
	return length, nil
}
