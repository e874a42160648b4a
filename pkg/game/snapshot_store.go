package game

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/pvz-animator/pkg/animator"
)

// ErrSnapshotNotFound 指定名称没有已保存的快照
var ErrSnapshotNotFound = errors.New("snapshot not found")

// 存储路径常量
const snapshotObject = "animator_snapshots"

// SnapshotStore 控制器快照存储
// 每个实体名称对应一个 YAML 编码的 animator.Snapshot
type SnapshotStore struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	memory       map[string][]byte
}

// NewSnapshotStore 创建快照存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅保存在内存中）
func NewSnapshotStore(gdataManager *gdata.Manager) *SnapshotStore {
	return &SnapshotStore{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}
}

// Persistent 是否持久化到磁盘
func (s *SnapshotStore) Persistent() bool {
	return s.gdataManager != nil
}

// Save 保存快照
//
// 返回：
//   - error: 名称无效、序列化或写入失败
func (s *SnapshotStore) Save(name string, snapshot animator.Snapshot) error {
	if err := validateSnapshotName(name); err != nil {
		return err
	}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot '%s': %w", name, err)
	}

	if s.gdataManager == nil {
		s.memory[name] = data
		return nil
	}

	if err := s.gdataManager.SaveObjectProp(snapshotObject, name, data); err != nil {
		return fmt.Errorf("failed to save snapshot '%s': %w", name, err)
	}
	log.Printf("[SnapshotStore] Snapshot '%s' saved", name)
	return nil
}

// Load 加载快照
//
// 返回：
//   - animator.Snapshot: 保存的快照
//   - error: 不存在时返回 ErrSnapshotNotFound，读取或反序列化失败时返回包装后的错误
func (s *SnapshotStore) Load(name string) (animator.Snapshot, error) {
	var snapshot animator.Snapshot
	if err := validateSnapshotName(name); err != nil {
		return snapshot, err
	}

	var data []byte
	if s.gdataManager == nil {
		var ok bool
		if data, ok = s.memory[name]; !ok {
			return snapshot, fmt.Errorf("%w: '%s'", ErrSnapshotNotFound, name)
		}
	} else {
		if !s.gdataManager.ObjectPropExists(snapshotObject, name) {
			return snapshot, fmt.Errorf("%w: '%s'", ErrSnapshotNotFound, name)
		}
		var err error
		if data, err = s.gdataManager.LoadObjectProp(snapshotObject, name); err != nil {
			return snapshot, fmt.Errorf("failed to load snapshot '%s': %w", name, err)
		}
	}

	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return animator.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot '%s': %w", name, err)
	}
	return snapshot, nil
}

// Exists 是否存在指定名称的快照
func (s *SnapshotStore) Exists(name string) bool {
	if validateSnapshotName(name) != nil {
		return false
	}
	if s.gdataManager == nil {
		_, ok := s.memory[name]
		return ok
	}
	return s.gdataManager.ObjectPropExists(snapshotObject, name)
}

// validateSnapshotName 名称用作存储文件名，不能为空或包含路径分隔符
func validateSnapshotName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	return nil
}
