// Package rating 平均分的唯一定义
//
// 内存路径（Average / FromRatings）与 SQL 路径（AvgExpr）均为评分算术平均，
// 保留 Precision 位小数并四舍五入（远离零方向），无评价时恰为 0。
package rating

import "fmt"

// Precision 平均分保留的小数位数
const Precision = 2

const scale = 100 // 10^Precision

// Average 由评分总和与条数计算平均分
// 使用整数运算完成四舍五入，避免浮点误差导致与数据库 ROUND 结果不一致
func Average(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	neg := sum < 0
	if neg {
		sum = -sum
	}
	hundredths := (sum*2*scale + count) / (2 * count)
	if neg {
		hundredths = -hundredths
	}
	return float64(hundredths) / scale
}

// FromRatings 对已加载到内存的评分求平均
func FromRatings(ratings []int) float64 {
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	return Average(sum, int64(len(ratings)))
}

// AvgExpr 返回与 Average 等价的 SQL 聚合表达式
// alias 为评价表在查询中的别名，表需要包含 id 与 rating 列
func AvgExpr(alias string) string {
	return fmt.Sprintf(
		"COALESCE(ROUND(SUM(%[1]s.rating)::numeric / NULLIF(COUNT(%[1]s.id), 0), %[2]d), 0)",
		alias, Precision,
	)
}
