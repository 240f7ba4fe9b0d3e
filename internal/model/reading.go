package model

import "time"

// Variable Ubidots 变量标签
type Variable string

const (
	VariableGas         Variable = "mq2"
	VariableHumidity    Variable = "humidity"
	VariableTemperature Variable = "temperature"
	VariableLux         Variable = "lux"
)

// Label 仪表盘显示名称
func (v Variable) Label() string {
	switch v {
	case VariableGas:
		return "ASAP/GAS"
	case VariableHumidity:
		return "KELEMBAPAN"
	case VariableTemperature:
		return "SUHU"
	case VariableLux:
		return "INTENSITAS CAHAYA"
	default:
		return string(v)
	}
}

// ParseVariables 将配置中的变量名转换为 Variable
func ParseVariables(names []string) []Variable {
	out := make([]Variable, 0, len(names))
	for _, n := range names {
		out = append(out, Variable(n))
	}
	return out
}

// Reading 单个传感器读数
type Reading struct {
	Variable  Variable  `json:"variable"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot 一次轮询后的最新状态
type Snapshot struct {
	Device      string                  `json:"device"`
	Readings    map[Variable]Reading    `json:"readings"`
	Evaluations map[Variable]Evaluation `json:"evaluations"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// NewSnapshot 创建空快照
func NewSnapshot(device string) Snapshot {
	return Snapshot{
		Device:      device,
		Readings:    make(map[Variable]Reading),
		Evaluations: make(map[Variable]Evaluation),
	}
}

// Value 获取变量的最新值
func (s Snapshot) Value(v Variable) (float64, bool) {
	r, ok := s.Readings[v]
	if !ok {
		return 0, false
	}
	return r.Value, true
}

// ValuePtr 获取变量的最新值，不存在时返回 nil
func (s Snapshot) ValuePtr(v Variable) *float64 {
	value, ok := s.Value(v)
	if !ok {
		return nil
	}
	return &value
}
