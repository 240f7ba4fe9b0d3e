package status

import "github.com/pengawas/pengawas-go/internal/model"

var styles = map[model.Category]model.Style{
	model.CategoryDanger:     {Severity: model.SeverityError, Symbol: "🚨"},
	model.CategorySuspicious: {Severity: model.SeverityWarning, Symbol: "⚠️"},
	model.CategorySafe:       {Severity: model.SeveritySuccess, Symbol: "✅"},

	model.CategoryDarkSmoke:      {Severity: model.SeverityWarning, Symbol: "🚨"},
	model.CategoryDarkSuspicious: {Severity: model.SeverityInfo, Symbol: "⚠️"},
	model.CategoryDarkSafe:       {Severity: model.SeverityInfo, Symbol: "🌑"},
	model.CategoryLit:            {Severity: model.SeverityInfo, Symbol: "💡"},

	model.CategoryHot:               {Severity: model.SeverityWarning, Symbol: "🔥"},
	model.CategoryWarmUncomfortable: {Severity: model.SeverityWarning, Symbol: "🌤️"},
	model.CategoryNormal:            {Severity: model.SeveritySuccess, Symbol: "✅"},
	model.CategoryCold:              {Severity: model.SeverityInfo, Symbol: "❄️"},
}

// StyleOf 分类对应的展示样式，未知分类按 info 处理
func StyleOf(c model.Category) model.Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return model.Style{Severity: model.SeverityInfo}
}

// View 附加展示样式
func View(e model.Evaluation) model.EvaluationView {
	return model.EvaluationView{Evaluation: e, Style: StyleOf(e.Category)}
}

// SnapshotView 将快照转换为前端视图
func SnapshotView(s model.Snapshot) model.SnapshotView {
	views := make(map[model.Variable]model.EvaluationView, len(s.Evaluations))
	for v, e := range s.Evaluations {
		views[v] = View(e)
	}
	readings := s.Readings
	if readings == nil {
		readings = map[model.Variable]model.Reading{}
	}
	return model.SnapshotView{
		Device:      s.Device,
		Readings:    readings,
		Evaluations: views,
		UpdatedAt:   s.UpdatedAt,
	}
}
