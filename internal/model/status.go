package model

// Category 阈值判定结果
type Category string

const (
	CategoryDanger     Category = "DANGER"
	CategorySuspicious Category = "SUSPICIOUS"
	CategorySafe       Category = "SAFE"

	CategoryDarkSmoke      Category = "DARK_SMOKE"
	CategoryDarkSuspicious Category = "DARK_SUSPICIOUS"
	CategoryDarkSafe       Category = "DARK_SAFE"
	CategoryLit            Category = "LIT"

	CategoryHot               Category = "HOT"
	CategoryWarmUncomfortable Category = "WARM_UNCOMFORTABLE"
	CategoryNormal            Category = "NORMAL"
	CategoryCold              Category = "COLD"
)

// Severity 前端展示级别
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Evaluation 判定结果（不含任何展示符号）
type Evaluation struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Style 展示样式
type Style struct {
	Severity Severity `json:"severity"`
	Symbol   string   `json:"symbol"`
}

// EvaluationView 带展示样式的判定结果
type EvaluationView struct {
	Evaluation
	Style
}
