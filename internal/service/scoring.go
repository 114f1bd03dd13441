package service

import (
	"math"
	"strings"

	"tla_backend/internal/model"
)

// AnswersMatch 判定答案：去首尾空白后忽略大小写的精确相等
func AnswersMatch(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// ComputeAccuracy 正确率百分比，无作答时返回 0 而非 NaN
func ComputeAccuracy(correctAnswers, totalAttempts int) float64 {
	if totalAttempts == 0 {
		return 0
	}
	return float64(correctAnswers) / float64(totalAttempts) * 100
}

// RoundAccuracy 仅用于展示层的取整，落库值保留全精度
func RoundAccuracy(accuracy float64) int {
	return int(math.Round(accuracy))
}

// SessionAggregate 由答题台账推导出的会话汇总
type SessionAggregate struct {
	TotalAttempts  int
	CorrectAnswers int
	TotalXP        int
	Accuracy       float64
}

// AggregateAttempts 以台账为准汇总会话结果，不信任会话行上的累计字段
func AggregateAttempts(attempts []model.ChallengeAttempt) SessionAggregate {
	agg := SessionAggregate{TotalAttempts: len(attempts)}
	for _, a := range attempts {
		if a.IsCorrect {
			agg.CorrectAnswers++
		}
		agg.TotalXP += a.XPEarned
	}
	agg.Accuracy = ComputeAccuracy(agg.CorrectAnswers, agg.TotalAttempts)
	return agg
}
