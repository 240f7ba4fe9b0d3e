// Package router 关键词问答路由：按顺序匹配话题，第一个命中的话题生效。
package router

import (
	"fmt"
	"strings"

	"github.com/pengawas/pengawas-go/internal/status"
)

// Topic 问题话题
type Topic string

const (
	TopicSmoke       Topic = "smoke"
	TopicLight       Topic = "light"
	TopicTemperature Topic = "temperature"
	TopicStatus      Topic = "status"
	TopicUnknown     Topic = "unknown"
)

// 固定回复
const (
	LuxUnavailable         = "Saya belum bisa membaca data lux sekarang."
	TemperatureUnavailable = "Saya belum bisa membaca data suhu sekarang."
	NotUnderstood          = "Maaf, saya belum paham pertanyaannya."
)

// TopicInfo 话题信息
type TopicInfo struct {
	Topic       Topic    `json:"topic"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// 匹配顺序即优先级
var topics = []TopicInfo{
	{
		Topic:       TopicSmoke,
		Description: "Status asap rokok dari sensor MQ2",
		Keywords:    []string{"rokok", "situasi"},
	},
	{
		Topic:       TopicLight,
		Description: "Kondisi pencahayaan toilet",
		Keywords:    []string{"lampu", "lux", "cahaya", "gelap"},
	},
	{
		Topic:       TopicTemperature,
		Description: "Kenyamanan suhu ruangan",
		Keywords:    []string{"suhu", "temperature", "panas", "dingin"},
	},
	{
		Topic:       TopicStatus,
		Description: "Ringkasan status asap dan penerangan",
		Keywords:    []string{"status"},
	},
}

// Topics 所有话题（按匹配顺序）
func Topics() []TopicInfo {
	out := make([]TopicInfo, len(topics))
	copy(out, topics)
	return out
}

// Router 问答路由
type Router struct {
	evaluator *status.Evaluator
}

// NewRouter 创建问答路由
func NewRouter(evaluator *status.Evaluator) *Router {
	return &Router{evaluator: evaluator}
}

// Classify 问题分类（不区分大小写的子串匹配）
func Classify(question string) Topic {
	q := strings.ToLower(question)
	for _, info := range topics {
		for _, kw := range info.Keywords {
			if strings.Contains(q, kw) {
				return info.Topic
			}
		}
	}
	return TopicUnknown
}

// Respond 根据问题和读数生成回复，lux 与 temp 可为 nil
func (r *Router) Respond(question string, gas float64, lux, temp *float64) string {
	_, answer := r.Answer(question, gas, lux, temp)
	return answer
}

// Answer 同 Respond，额外返回命中的话题
func (r *Router) Answer(question string, gas float64, lux, temp *float64) (Topic, string) {
	topic := Classify(question)

	switch topic {
	case TopicSmoke:
		return topic, r.evaluator.Smoke(gas).Message

	case TopicLight:
		if lux == nil {
			return topic, LuxUnavailable
		}
		return topic, r.evaluator.Light(*lux, gas).Message

	case TopicTemperature:
		if temp == nil {
			return topic, TemperatureUnavailable
		}
		return topic, r.evaluator.Temperature(*temp).Message

	case TopicStatus:
		light := ""
		if lux != nil {
			light = r.evaluator.Light(*lux, gas).Message
		}
		return topic, fmt.Sprintf("Status asap: %s | Penerangan: %s", r.evaluator.Smoke(gas).Message, light)

	default:
		return TopicUnknown, NotUnderstood
	}
}
