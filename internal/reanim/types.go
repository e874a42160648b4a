// Package reanim 解析 Reanim 骨骼动画文件
//
// 控制器只需要每个动画定义轨道（名称以 "anim_" 开头）的可见帧区间，
// 用来推导片段时长；部件轨道的变换数据不在此解析。
package reanim

// ReanimXML Reanim 文件的根结构
type ReanimXML struct {
	// FPS 帧率，PVZ 动画通常为 12
	FPS int `xml:"fps"`

	// Tracks 轨道列表（动画定义轨道与部件轨道混合）
	Tracks []Track `xml:"track"`
}

// Track 单条轨道
type Track struct {
	// Name 轨道名，如 "anim_idle"、"head"
	Name string `xml:"name"`

	// Frames 逐帧数据
	Frames []Frame `xml:"t"`
}

// Frame 单帧
// 字段为空时继承上一帧的值
type Frame struct {
	// FrameNum 可见性：nil 继承上一帧，-1 隐藏，>= 0 显示
	FrameNum *int `xml:"f,omitempty"`

	// ImagePath 部件图片引用（动画定义轨道上为空）
	ImagePath string `xml:"i,omitempty"`
}

// IsAnimationTrack 是否为动画定义轨道
func (t Track) IsAnimationTrack() bool {
	return len(t.Name) > 5 && t.Name[:5] == "anim_"
}
