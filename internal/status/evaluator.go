// Package status 传感器阈值判定。所有方法均为纯函数，不依赖任何全局状态。
package status

import (
	"github.com/pengawas/pengawas-go/internal/config"
	"github.com/pengawas/pengawas-go/internal/model"
)

var messages = map[model.Category]string{
	model.CategoryDanger:     "Bahaya! Terdeteksi asap rokok!",
	model.CategorySuspicious: "Mencurigakan: kemungkinan ada asap, tapi belum pasti rokok.",
	model.CategorySafe:       "Semua aman, tidak terdeteksi asap mencurigakan.",

	model.CategoryDarkSmoke:      "Agak mencurigakan: gelap dan ada indikasi asap rokok!",
	model.CategoryDarkSuspicious: "Toilet gelap dan ada kemungkinan asap, perlu dipantau.",
	model.CategoryDarkSafe:       "Toilet dalam kondisi gelap, tapi tidak ada asap. Masih aman.",
	model.CategoryLit:            "Lampu menyala, kondisi toilet terang.",

	model.CategoryHot:               "Suhu sangat panas, bisa tidak nyaman, bisa berbahaya!",
	model.CategoryWarmUncomfortable: "Suhu cukup panas, kurang nyaman.",
	model.CategoryNormal:            "Suhu normal dan nyaman.",
	model.CategoryCold:              "Suhu terlalu dingin, bisa tidak nyaman.",
}

// Message 分类对应的文案
func Message(c model.Category) string {
	return messages[c]
}

// Evaluator 阈值判定器
type Evaluator struct {
	th config.ThresholdsConfig
}

// NewEvaluator 创建判定器
func NewEvaluator(th config.ThresholdsConfig) *Evaluator {
	return &Evaluator{th: th}
}

// Smoke 烟雾判定
//
// 两个边界都属于 SUSPICIOUS：gas == 500 与 gas == 800 均为 SUSPICIOUS。
func (e *Evaluator) Smoke(gas float64) model.Evaluation {
	switch {
	case gas > e.th.SmokeDanger:
		return evaluation(model.CategoryDanger)
	case gas >= e.th.SmokeSuspicious:
		return evaluation(model.CategorySuspicious)
	default:
		return evaluation(model.CategorySafe)
	}
}

// Light 光照判定，仅在偏暗时才参考烟雾读数
func (e *Evaluator) Light(lux, gas float64) model.Evaluation {
	if lux > e.th.LuxDark {
		return evaluation(model.CategoryLit)
	}

	switch e.Smoke(gas).Category {
	case model.CategoryDanger:
		return evaluation(model.CategoryDarkSmoke)
	case model.CategorySuspicious:
		return evaluation(model.CategoryDarkSuspicious)
	default:
		return evaluation(model.CategoryDarkSafe)
	}
}

// Temperature 温度判定
//
// 分支顺序保持原样：落在 (TempNormalMax, TempWarmMin) 之间的值归为 COLD。
func (e *Evaluator) Temperature(temp float64) model.Evaluation {
	switch {
	case temp >= e.th.TempHot:
		return evaluation(model.CategoryHot)
	case temp >= e.th.TempWarmMin:
		return evaluation(model.CategoryWarmUncomfortable)
	case temp <= e.th.TempNormalMax:
		return evaluation(model.CategoryNormal)
	default:
		return evaluation(model.CategoryCold)
	}
}

func evaluation(c model.Category) model.Evaluation {
	return model.Evaluation{Category: c, Message: messages[c]}
}
