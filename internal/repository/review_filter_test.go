package repository

import (
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"course-review/internal/model"
)

// dryRunDB 仅生成 SQL，不连接数据库
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=dryrun dbname=dryrun sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("创建 DryRun 连接失败: %v", err)
	}
	return db
}

func teacherSQL(t *testing.T, f ReviewFilter) (string, []interface{}) {
	t.Helper()
	stmt := dryRunDB(t).Scopes(f.Scope(model.ReviewKindTeacher)).Find(&[]model.TeacherReview{}).Statement
	return stmt.SQL.String(), stmt.Vars
}

func disciplineSQL(t *testing.T, f ReviewFilter) (string, []interface{}) {
	t.Helper()
	stmt := dryRunDB(t).Scopes(f.Scope(model.ReviewKindDiscipline)).Find(&[]model.DisciplineReview{}).Statement
	return stmt.SQL.String(), stmt.Vars
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestReviewFilter_Empty(t *testing.T) {
	sql, vars := teacherSQL(t, ReviewFilter{})

	if strings.Contains(sql, "WHERE") {
		t.Errorf("空条件不应生成 WHERE，实际: %s", sql)
	}
	if strings.Contains(sql, "JOIN") {
		t.Errorf("空条件不应关联课程表，实际: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY teacher_reviews.id ASC") {
		t.Errorf("未指定时间排序时应按 id 升序，实际: %s", sql)
	}
	if len(vars) != 0 {
		t.Errorf("期望无绑定参数，实际: %v", vars)
	}
}

func TestReviewFilter_AllTeacherCriteria(t *testing.T) {
	sql, vars := teacherSQL(t, ReviewFilter{
		TeacherID:    int64Ptr(3),
		DisciplineID: int64Ptr(7),
		Difficulty:   "hard",
		MinRating:    intPtr(4),
	})

	for _, want := range []string{
		"teacher_reviews.teacher_id = $",
		"teacher_reviews.discipline_id = $",
		"teacher_reviews.difficulty = $",
		"teacher_reviews.rating >= $",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("期望 SQL 包含 %q，实际: %s", want, sql)
		}
	}
	if strings.Count(sql, " AND ") != 3 {
		t.Errorf("期望 4 个条件以 AND 连接，实际: %s", sql)
	}
	if len(vars) != 4 {
		t.Fatalf("期望 4 个绑定参数，实际: %v", vars)
	}
	if vars[0] != int64(3) || vars[1] != int64(7) || vars[2] != "hard" || vars[3] != 4 {
		t.Errorf("绑定参数不符: %v", vars)
	}
}

func TestReviewFilter_TeacherIDIgnoredForDisciplineKind(t *testing.T) {
	sql, vars := disciplineSQL(t, ReviewFilter{TeacherID: int64Ptr(3)})

	if strings.Contains(sql, "teacher_id") {
		t.Errorf("课程评价检索不应包含 teacher_id 条件，实际: %s", sql)
	}
	if !strings.Contains(sql, "FROM \"discipline_reviews\"") && !strings.Contains(sql, "FROM discipline_reviews") {
		t.Errorf("期望查询 discipline_reviews 表，实际: %s", sql)
	}
	if len(vars) != 0 {
		t.Errorf("期望无绑定参数，实际: %v", vars)
	}
}

func TestReviewFilter_FacultyAndTypeJoinDisciplines(t *testing.T) {
	sql, vars := disciplineSQL(t, ReviewFilter{Faculty: "Science", Type: "lecture"})

	if !strings.Contains(sql, "JOIN disciplines ON disciplines.id = discipline_reviews.discipline_id") {
		t.Errorf("期望关联 disciplines 表，实际: %s", sql)
	}
	if !strings.Contains(sql, "SELECT discipline_reviews.*") {
		t.Errorf("关联查询应只选取评价表字段，实际: %s", sql)
	}
	if !strings.Contains(sql, "disciplines.faculty = $") || !strings.Contains(sql, "disciplines.type = $") {
		t.Errorf("期望包含学院与类型条件，实际: %s", sql)
	}
	if len(vars) != 2 || vars[0] != "Science" || vars[1] != "lecture" {
		t.Errorf("绑定参数不符: %v", vars)
	}
}

func TestReviewFilter_FacultyOnlyJoinsOnce(t *testing.T) {
	sql, _ := teacherSQL(t, ReviewFilter{Faculty: "Science"})

	if strings.Count(sql, "JOIN disciplines") != 1 {
		t.Errorf("期望仅关联一次 disciplines 表，实际: %s", sql)
	}
	if strings.Contains(sql, "disciplines.type") {
		t.Errorf("未指定类型时不应出现类型条件，实际: %s", sql)
	}
}

func TestReviewFilter_TimeOrders(t *testing.T) {
	newest, _ := teacherSQL(t, ReviewFilter{Order: OrderNewest})
	oldest, _ := teacherSQL(t, ReviewFilter{Order: OrderOldest})

	assertOrder := func(sql, first, second string) {
		t.Helper()
		i, j := strings.Index(sql, first), strings.Index(sql, second)
		if i < 0 || j < 0 || i > j {
			t.Errorf("期望 %q 排在 %q 之前，实际: %s", first, second, sql)
		}
	}
	assertOrder(newest, "teacher_reviews.submitted_on DESC", "teacher_reviews.id DESC")
	assertOrder(oldest, "teacher_reviews.submitted_on ASC", "teacher_reviews.id ASC")
}

func TestTopRatedScope(t *testing.T) {
	stmt := dryRunDB(t).Scopes(topRatedScope(model.ReviewKindTeacher, 10)).Find(&[]RankedEntity{}).Statement
	sql := stmt.SQL.String()

	for _, want := range []string{
		"e.surname",
		"COALESCE(ROUND(SUM(r.rating)::numeric / NULLIF(COUNT(r.id), 0), 2), 0) AS average",
		"LEFT JOIN teacher_reviews AS r ON r.teacher_id = e.id",
		"GROUP BY",
		"ORDER BY average DESC, e.id ASC",
		"LIMIT",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("期望 SQL 包含 %q，实际: %s", want, sql)
		}
	}

	stmt = dryRunDB(t).Scopes(topRatedScope(model.ReviewKindDiscipline, 5)).Find(&[]RankedEntity{}).Statement
	sql = stmt.SQL.String()
	if !strings.Contains(sql, "e.faculty, e.type") || !strings.Contains(sql, "r.discipline_id = e.id") {
		t.Errorf("课程排行 SQL 不符: %s", sql)
	}
}
