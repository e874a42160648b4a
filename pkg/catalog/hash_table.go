package catalog

import (
	"errors"
	"fmt"
	"hash/crc32"
	"sync"
	"sync/atomic"
)

var (
	// ErrNotInitialized 哈希表尚未构建（调用方遗漏 Initialize，属于编程错误）
	ErrNotInitialized = errors.New("catalog: hash table not initialized")
	// ErrUnknownAnimation 动画标识或名称不在枚举内
	ErrUnknownAnimation = errors.New("catalog: unknown animation")
	// ErrUnknownParameter 参数名称不在枚举内
	ErrUnknownParameter = errors.New("catalog: unknown parameter")
)

// NativeHash 引擎原生的状态哈希
// 播放热路径上用它代替字符串比较
type NativeHash int32

// StringToHash 把状态名转换为引擎原生哈希
func StringToHash(name string) NativeHash {
	return NativeHash(int32(crc32.ChecksumIEEE([]byte(name))))
}

// HashTable 动画标识 -> 原生哈希 的共享只读表
//
// 显式创建并传给每个控制器，避免隐藏的全局状态：
//   - Initialize 只会真正构建一次，重复调用为空操作
//   - 构建完成后只读，同一进程内所有控制器可共享
type HashTable struct {
	once    sync.Once
	// ready 在构建完成后置位，读取方据此看到完整的表
	ready   atomic.Bool
	hashes  [AnimationCount]NativeHash
	reverse map[NativeHash]AnimationID
}

// NewHashTable 创建尚未构建的哈希表
func NewHashTable() *HashTable {
	return &HashTable{}
}

// NewInitializedHashTable 创建并立即构建哈希表
func NewInitializedHashTable() *HashTable {
	t := NewHashTable()
	t.Initialize()
	return t
}

// Initialize 把每个枚举成员的符号名转换为原生哈希
// 并发的首次调用也是安全的
func (t *HashTable) Initialize() {
	t.once.Do(func() {
		t.reverse = make(map[NativeHash]AnimationID, AnimationCount)
		for _, id := range AllAnimations() {
			h := StringToHash(id.String())
			t.hashes[id] = h
			t.reverse[h] = id
		}
		t.ready.Store(true)
	})
}

// Initialized 是否已构建
func (t *HashTable) Initialized() bool {
	return t != nil && t.ready.Load()
}

// HashOf 返回动画的原生哈希
func (t *HashTable) HashOf(id AnimationID) (NativeHash, error) {
	if !t.Initialized() {
		return 0, ErrNotInitialized
	}
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAnimation, int(id))
	}
	return t.hashes[id], nil
}

// Lookup 通过原生哈希反查动画标识
func (t *HashTable) Lookup(h NativeHash) (AnimationID, bool) {
	if !t.Initialized() {
		return RESET, false
	}
	id, ok := t.reverse[h]
	if !ok {
		return RESET, false
	}
	return id, true
}
