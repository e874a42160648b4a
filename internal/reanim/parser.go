package reanim

import (
	"encoding/xml"
	"fmt"
	"os"
)

// ParseReanimFile 解析 Reanim 文件
//
// 参数：
//   - path: 文件路径，如 "data/reanim/PeaShooter.reanim"
//
// 返回：
//   - *ReanimXML: 解析结果
//   - error: 读取或解析错误
func ParseReanimFile(path string) (*ReanimXML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reanim file '%s': %w", path, err)
	}
	reanim, err := ParseReanim(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML from '%s': %w", path, err)
	}
	return reanim, nil
}

// ParseReanim 解析 Reanim 内容
// 原版文件没有根元素，解析前包一层 <reanim>
func ParseReanim(data []byte) (*ReanimXML, error) {
	wrapped := make([]byte, 0, len(data)+len("<reanim></reanim>"))
	wrapped = append(wrapped, "<reanim>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</reanim>"...)

	var reanim ReanimXML
	if err := xml.Unmarshal(wrapped, &reanim); err != nil {
		return nil, err
	}
	return &reanim, nil
}

// FindTrack 按名称查找轨道
func (r *ReanimXML) FindTrack(name string) (*Track, bool) {
	for i := range r.Tracks {
		if r.Tracks[i].Name == name {
			return &r.Tracks[i], true
		}
	}
	return nil, false
}

// AnimationNames 返回所有动画定义轨道名（按文件顺序）
func (r *ReanimXML) AnimationNames() []string {
	var names []string
	for _, t := range r.Tracks {
		if t.IsAnimationTrack() {
			names = append(names, t.Name)
		}
	}
	return names
}

// VisibleSpan 动画定义轨道的可见帧区间 [first, last]
//
// 帧可见性按"空值继承上一帧"展开，首帧未指定时视为可见。
func (t Track) VisibleSpan() (first, last int, ok bool) {
	first, last = -1, -1
	visible := true
	for i, f := range t.Frames {
		if f.FrameNum != nil {
			visible = *f.FrameNum != -1
		}
		if visible {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}

// AnimationLength 返回动画定义轨道的时长（秒）= 可见帧数 / FPS
func (r *ReanimXML) AnimationLength(track string) (float64, error) {
	if r.FPS <= 0 {
		return 0, fmt.Errorf("invalid fps %d", r.FPS)
	}
	t, ok := r.FindTrack(track)
	if !ok {
		return 0, fmt.Errorf("track '%s' not found", track)
	}
	first, last, ok := t.VisibleSpan()
	if !ok {
		return 0, fmt.Errorf("track '%s' has no visible frames", track)
	}
	return float64(last-first+1) / float64(r.FPS), nil
}
