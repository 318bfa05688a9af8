package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"course-review/config"
	"course-review/internal/model"
)

func setupTestRankingService(cache RankingCache) (RankingService, *mockStore) {
	cfg := &config.ReviewConfig{RankingLimit: 2, RankingMaxLimit: 3, RankingCacheTTL: time.Minute}
	store := newMockStore()
	return NewRankingService(cfg, store.repository(), cache, zap.NewNop()), store
}

func addTeacherRatings(store *mockStore, teacherID int64, ratings ...int) {
	for _, r := range ratings {
		id := store.id()
		store.teacherReviews[id] = &model.TeacherReview{ID: id, TeacherID: teacherID, Rating: r}
	}
}

func TestTopRanked_OrderAndTies(t *testing.T) {
	svc, store := setupTestRankingService(nil)
	a := store.addTeacher("A", "One")
	b := store.addTeacher("B", "Two")
	c := store.addTeacher("C", "Three")
	addTeacherRatings(store, a.ID, 4)
	addTeacherRatings(store, b.ID, 5, 3)
	addTeacherRatings(store, c.ID, 5)

	result, err := svc.TopRanked(context.Background(), model.ReviewKindTeacher, 3)
	if err != nil {
		t.Fatalf("TopRanked 应成功: %v", err)
	}
	if len(result.Items) != 3 {
		t.Fatalf("期望 3 条，实际=%d", len(result.Items))
	}
	// C=5.0 在前；A 与 B 均为 4.0，按 id 升序
	want := []int64{c.ID, a.ID, b.ID}
	for i, item := range result.Items {
		if item.ID != want[i] {
			t.Errorf("第 %d 名期望 id=%d，实际=%d", i+1, want[i], item.ID)
		}
		if item.Rank != i+1 {
			t.Errorf("期望 Rank=%d，实际=%d", i+1, item.Rank)
		}
	}
	if result.Items[2].ReviewCount != 2 {
		t.Errorf("期望评价数 2，实际=%d", result.Items[2].ReviewCount)
	}
}

func TestTopRanked_ClampLimit(t *testing.T) {
	svc, store := setupTestRankingService(nil)
	for i := 0; i < 5; i++ {
		store.addDiscipline("D", "F", "T")
	}
	ctx := context.Background()

	cases := []struct {
		limit int
		want  int
	}{
		{0, 2},  // 默认值
		{-4, 2}, // 默认值
		{1, 1},
		{50, 3}, // 上限
	}
	for _, tc := range cases {
		result, err := svc.TopRanked(ctx, model.ReviewKindDiscipline, tc.limit)
		if err != nil {
			t.Fatalf("TopRanked(%d) 失败: %v", tc.limit, err)
		}
		if len(result.Items) != tc.want {
			t.Errorf("limit=%d 期望 %d 条，实际=%d", tc.limit, tc.want, len(result.Items))
		}
	}
}

func TestTopRanked_UsesCache(t *testing.T) {
	cache := newMockCache()
	svc, store := setupTestRankingService(cache)
	a := store.addTeacher("A", "One")
	addTeacherRatings(store, a.ID, 3)
	ctx := context.Background()

	if _, err := svc.TopRanked(ctx, model.ReviewKindTeacher, 1); err != nil {
		t.Fatalf("TopRanked 失败: %v", err)
	}
	if _, ok := cache.data["0:teacher:1"]; !ok {
		t.Fatal("查询结果应写入缓存 0:teacher:1")
	}

	// 绕过服务直接修改数据，缓存命中时应返回旧结果
	addTeacherRatings(store, a.ID, 5)
	cached, err := svc.TopRanked(ctx, model.ReviewKindTeacher, 1)
	if err != nil {
		t.Fatalf("TopRanked 失败: %v", err)
	}
	if cached.Items[0].AverageRating != 3 {
		t.Errorf("缓存命中期望平均分 3，实际=%v", cached.Items[0].AverageRating)
	}

	invalidateRankings(ctx, cache, zap.NewNop())
	fresh, _ := svc.TopRanked(ctx, model.ReviewKindTeacher, 1)
	if fresh.Items[0].AverageRating != 4 {
		t.Errorf("缓存清除后期望平均分 4，实际=%v", fresh.Items[0].AverageRating)
	}
}

func TestAverageRating_InMemory(t *testing.T) {
	svc, store := setupTestRankingService(nil)
	teacher := store.addTeacher("A", "One")
	addTeacherRatings(store, teacher.ID, 5, 4, 4)
	discipline := store.addDiscipline("D", "F", "T")
	ctx := context.Background()

	avg, err := svc.AverageRating(ctx, model.ReviewKindTeacher, teacher.ID)
	if err != nil {
		t.Fatalf("AverageRating 失败: %v", err)
	}
	if avg != 4.33 {
		t.Errorf("期望 4.33，实际=%v", avg)
	}

	// 内存路径与数据库聚合路径结果一致
	sqlAvg, _ := store.repository().Ranking.Average(ctx, model.ReviewKindTeacher, teacher.ID)
	if avg != sqlAvg {
		t.Errorf("两种计算路径不一致: %v != %v", avg, sqlAvg)
	}

	empty, err := svc.AverageRating(ctx, model.ReviewKindDiscipline, discipline.ID)
	if err != nil || empty != 0 {
		t.Errorf("无评价时期望 0，实际=%v err=%v", empty, err)
	}
}

func TestAverageRating_NotFound(t *testing.T) {
	svc, _ := setupTestRankingService(nil)
	ctx := context.Background()

	if _, err := svc.AverageRating(ctx, model.ReviewKindTeacher, 1); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("期望 ErrTeacherNotFound，实际: %v", err)
	}
	if _, err := svc.AverageRating(ctx, model.ReviewKindDiscipline, 1); !errors.Is(err, ErrDisciplineNotFound) {
		t.Errorf("期望 ErrDisciplineNotFound，实际: %v", err)
	}
}

func TestTopRanked_WriteDuringFillDoesNotPinStaleResult(t *testing.T) {
	cache := newMockCache()
	svc, store := setupTestRankingService(cache)
	a := store.addTeacher("A", "One")
	addTeacherRatings(store, a.ID, 3)
	ctx := context.Background()

	// 查库之后、回写之前提交一条新评价并使缓存失效
	cache.beforeSet = func() {
		cache.beforeSet = nil
		addTeacherRatings(store, a.ID, 5)
		invalidateRankings(ctx, cache, zap.NewNop())
	}
	stale, err := svc.TopRanked(ctx, model.ReviewKindTeacher, 1)
	if err != nil {
		t.Fatalf("TopRanked 失败: %v", err)
	}
	if stale.Items[0].AverageRating != 3 {
		t.Fatalf("本次查询期望平均分 3，实际=%v", stale.Items[0].AverageRating)
	}

	fresh, err := svc.TopRanked(ctx, model.ReviewKindTeacher, 1)
	if err != nil {
		t.Fatalf("TopRanked 失败: %v", err)
	}
	if fresh.Items[0].AverageRating != 4 {
		t.Errorf("并发写入后期望平均分 4，实际=%v", fresh.Items[0].AverageRating)
	}
	if _, ok := cache.data["1:teacher:1"]; !ok {
		t.Error("新结果应写入代数 1 的缓存键")
	}
}

func TestRankingCacheKey(t *testing.T) {
	if got := rankingCacheKey(3, model.ReviewKindDiscipline, 10); got != "3:discipline:10" {
		t.Errorf("期望 3:discipline:10，实际=%s", got)
	}
}
