package dto

// ── 排行榜模块 DTO ──

// RankingQuery 排行榜查询参数
type RankingQuery struct {
	Kind  string `form:"kind"  binding:"omitempty,oneof=teacher discipline"`
	Limit int    `form:"limit" binding:"omitempty,min=1"`
}

// RankingItem 排行榜条目
type RankingItem struct {
	Rank          int     `json:"rank"`
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Surname       string  `json:"surname,omitempty"`
	Faculty       string  `json:"faculty,omitempty"`
	Type          string  `json:"type,omitempty"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// RankingResponse 排行榜
type RankingResponse struct {
	Kind  string        `json:"kind"`
	Items []RankingItem `json:"items"`
}
