package utils

import (
	"fmt"
	"math"
	"strings"
)

// Easing Functions (缓动函数)
//
// 用作交叉淡入的混合权重曲线。
// 所有函数接受进度 t ∈ [0, 1]，返回权重 ∈ [0, 1]。

// EaseLinear 线性（引擎默认的混合方式）
func EaseLinear(t float64) float64 {
	return t
}

// EaseInCubic 三次方缓入
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// SmoothStep 平滑阶跃 f(t) = 3t² - 2t³
func SmoothStep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// BlendCurve 按配置名称返回混合曲线
// 空名称视为 "linear"
func BlendCurve(name string) (func(float64) float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return EaseLinear, nil
	case "in_cubic":
		return EaseInCubic, nil
	case "out_cubic":
		return EaseOutCubic, nil
	case "cubic", "in_out_cubic":
		return EaseInOutCubic, nil
	case "smoothstep":
		return SmoothStep, nil
	}
	return nil, fmt.Errorf("unknown blend curve %q", name)
}
