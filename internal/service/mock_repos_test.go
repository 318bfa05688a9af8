package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"course-review/internal/model"
	"course-review/internal/rating"
	"course-review/internal/repository"
)

// ── Mock Store ──
// 各 mock repo 共享同一份内存数据，模拟外键与级联删除

type mockStore struct {
	users             map[int64]*model.User
	teachers          map[int64]*model.Teacher
	disciplines       map[int64]*model.Discipline
	assignments       map[[2]int64]bool // (teacher_id, discipline_id)
	teacherReviews    map[int64]*model.TeacherReview
	disciplineReviews map[int64]*model.DisciplineReview
	verifications     map[string]*model.PendingVerification
	nextID            int64

	// 注入写入失败
	createReviewErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:             make(map[int64]*model.User),
		teachers:          make(map[int64]*model.Teacher),
		disciplines:       make(map[int64]*model.Discipline),
		assignments:       make(map[[2]int64]bool),
		teacherReviews:    make(map[int64]*model.TeacherReview),
		disciplineReviews: make(map[int64]*model.DisciplineReview),
		verifications:     make(map[string]*model.PendingVerification),
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

// repository 组装不绑定数据库的 Repository 聚合（BeginTx 返回 nil 事务）
func (m *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		User:         &mockUserRepo{m},
		Teacher:      &mockTeacherRepo{m},
		Discipline:   &mockDisciplineRepo{m},
		Review:       &mockReviewRepo{m},
		Ranking:      &mockRankingRepo{m},
		Verification: &mockVerificationRepo{m},
	}
}

func (m *mockStore) addUser(username, email, passwordHash, role string) *model.User {
	u := &model.User{
		ID:           m.id(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Timestamps:   model.Timestamps{CreatedAt: time.Now()},
	}
	m.users[u.ID] = u
	return u
}

func (m *mockStore) addTeacher(name, surname string) *model.Teacher {
	t := &model.Teacher{ID: m.id(), Name: name, Surname: surname}
	m.teachers[t.ID] = t
	return t
}

func (m *mockStore) addDiscipline(name, faculty, typ string) *model.Discipline {
	d := &model.Discipline{ID: m.id(), Name: name, Faculty: faculty, Type: typ}
	m.disciplines[d.ID] = d
	return d
}

func (m *mockStore) assign(teacherID, disciplineID int64) {
	m.assignments[[2]int64{teacherID, disciplineID}] = true
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (r *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
		if u.Username == user.Username {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
	}
	user.ID = r.s.id()
	r.s.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *mockUserRepo) UsernameTaken(_ context.Context, username string, exceptID int64) (bool, error) {
	for _, u := range r.s.users {
		if u.Username == username && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) UpdateCredentials(_ context.Context, id int64, username, passwordHash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if username != "" {
		u.Username = username
	}
	if passwordHash != "" {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *mockUserRepo) SetRole(_ context.Context, id int64, role string) error {
	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct{ s *mockStore }

func (r *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	teacher.ID = r.s.id()
	r.s.teachers[teacher.ID] = teacher
	return nil
}

func (r *mockTeacherRepo) withDisciplines(t *model.Teacher) *model.Teacher {
	out := *t
	out.Disciplines = nil
	for key := range r.s.assignments {
		if key[0] == t.ID {
			if d, ok := r.s.disciplines[key[1]]; ok {
				out.Disciplines = append(out.Disciplines, *d)
			}
		}
	}
	sort.Slice(out.Disciplines, func(i, j int) bool { return out.Disciplines[i].ID < out.Disciplines[j].ID })
	return &out
}

func (r *mockTeacherRepo) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	if t, ok := r.s.teachers[id]; ok {
		return r.withDisciplines(t), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockTeacherRepo) GetWithReviews(_ context.Context, id int64) (*model.Teacher, error) {
	t, ok := r.s.teachers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *t
	out.Reviews = nil
	for _, rv := range r.s.teacherReviews {
		if rv.TeacherID == id {
			out.Reviews = append(out.Reviews, *rv)
		}
	}
	return &out, nil
}

func (r *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	var out []model.Teacher
	for _, t := range r.s.teachers {
		out = append(out, *r.withDisciplines(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockTeacherRepo) Delete(_ context.Context, id int64) error {
	delete(r.s.teachers, id)
	for key := range r.s.assignments {
		if key[0] == id {
			delete(r.s.assignments, key)
		}
	}
	for rid, rv := range r.s.teacherReviews {
		if rv.TeacherID == id {
			delete(r.s.teacherReviews, rid)
		}
	}
	return nil
}

func (r *mockTeacherRepo) IsAssigned(_ context.Context, teacherID, disciplineID int64) (bool, error) {
	return r.s.assignments[[2]int64{teacherID, disciplineID}], nil
}

func (r *mockTeacherRepo) SetDisciplines(_ context.Context, teacher *model.Teacher, disciplines []model.Discipline) error {
	for key := range r.s.assignments {
		if key[0] == teacher.ID {
			delete(r.s.assignments, key)
		}
	}
	for _, d := range disciplines {
		r.s.assign(teacher.ID, d.ID)
	}
	return nil
}

// ── Mock DisciplineRepository ──

type mockDisciplineRepo struct{ s *mockStore }

func (r *mockDisciplineRepo) Create(_ context.Context, discipline *model.Discipline) error {
	discipline.ID = r.s.id()
	r.s.disciplines[discipline.ID] = discipline
	return nil
}

func (r *mockDisciplineRepo) GetByID(_ context.Context, id int64) (*model.Discipline, error) {
	if d, ok := r.s.disciplines[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockDisciplineRepo) GetByIDs(_ context.Context, ids []int64) ([]model.Discipline, error) {
	var out []model.Discipline
	for _, id := range ids {
		if d, ok := r.s.disciplines[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *mockDisciplineRepo) GetWithReviews(_ context.Context, id int64) (*model.Discipline, error) {
	d, ok := r.s.disciplines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *d
	out.Reviews = nil
	for _, rv := range r.s.disciplineReviews {
		if rv.DisciplineID == id {
			out.Reviews = append(out.Reviews, *rv)
		}
	}
	return &out, nil
}

func (r *mockDisciplineRepo) List(_ context.Context) ([]model.Discipline, error) {
	var out []model.Discipline
	for _, d := range r.s.disciplines {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockDisciplineRepo) Delete(_ context.Context, id int64) error {
	delete(r.s.disciplines, id)
	for key := range r.s.assignments {
		if key[1] == id {
			delete(r.s.assignments, key)
		}
	}
	for rid, rv := range r.s.teacherReviews {
		if rv.DisciplineID == id {
			delete(r.s.teacherReviews, rid)
		}
	}
	for rid, rv := range r.s.disciplineReviews {
		if rv.DisciplineID == id {
			delete(r.s.disciplineReviews, rid)
		}
	}
	return nil
}

// ── Mock ReviewRepository ──

type mockReviewRepo struct{ s *mockStore }

func (r *mockReviewRepo) CreateTeacherReview(_ context.Context, review *model.TeacherReview) error {
	if r.s.createReviewErr != nil {
		return r.s.createReviewErr
	}
	review.ID = r.s.id()
	if review.SubmittedOn.IsZero() {
		review.SubmittedOn = model.Today()
	}
	r.s.teacherReviews[review.ID] = review
	return nil
}

func (r *mockReviewRepo) CreateDisciplineReview(_ context.Context, review *model.DisciplineReview) error {
	if r.s.createReviewErr != nil {
		return r.s.createReviewErr
	}
	review.ID = r.s.id()
	if review.SubmittedOn.IsZero() {
		review.SubmittedOn = model.Today()
	}
	r.s.disciplineReviews[review.ID] = review
	return nil
}

func (r *mockReviewRepo) GetTeacherReview(_ context.Context, id int64) (*model.TeacherReview, error) {
	if rv, ok := r.s.teacherReviews[id]; ok {
		return rv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockReviewRepo) GetDisciplineReview(_ context.Context, id int64) (*model.DisciplineReview, error) {
	if rv, ok := r.s.disciplineReviews[id]; ok {
		return rv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockReviewRepo) DeleteTeacherReview(_ context.Context, id int64) error {
	delete(r.s.teacherReviews, id)
	return nil
}

func (r *mockReviewRepo) DeleteDisciplineReview(_ context.Context, id int64) error {
	delete(r.s.disciplineReviews, id)
	return nil
}

// matches 在内存中复现 ReviewFilter 的过滤语义
func (r *mockReviewRepo) matches(f repository.ReviewFilter, teacherID *int64, disciplineID int64, difficulty string, rating int) bool {
	if f.TeacherID != nil && teacherID != nil && *f.TeacherID != *teacherID {
		return false
	}
	if f.DisciplineID != nil && *f.DisciplineID != disciplineID {
		return false
	}
	if f.Faculty != "" || f.Type != "" {
		d, ok := r.s.disciplines[disciplineID]
		if !ok {
			return false
		}
		if f.Faculty != "" && d.Faculty != f.Faculty {
			return false
		}
		if f.Type != "" && d.Type != f.Type {
			return false
		}
	}
	if f.Difficulty != "" && difficulty != f.Difficulty {
		return false
	}
	if f.MinRating != nil && rating < *f.MinRating {
		return false
	}
	return true
}

func orderReviews(order repository.TimeOrder, n int, day func(i int) time.Time, id func(i int) int64, swap func(i, j int)) {
	less := func(i, j int) bool { return id(i) < id(j) }
	switch order {
	case repository.OrderNewest:
		less = func(i, j int) bool {
			if !day(i).Equal(day(j)) {
				return day(i).After(day(j))
			}
			return id(i) > id(j)
		}
	case repository.OrderOldest:
		less = func(i, j int) bool {
			if !day(i).Equal(day(j)) {
				return day(i).Before(day(j))
			}
			return id(i) < id(j)
		}
	}
	// 插入排序，数据量很小
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			swap(j, j-1)
		}
	}
}

func (r *mockReviewRepo) SearchTeacherReviews(_ context.Context, f repository.ReviewFilter) ([]model.TeacherReview, error) {
	out := []model.TeacherReview{}
	for _, rv := range r.s.teacherReviews {
		tid := rv.TeacherID
		if r.matches(f, &tid, rv.DisciplineID, rv.Difficulty, rv.Rating) {
			out = append(out, *rv)
		}
	}
	orderReviews(f.Order, len(out),
		func(i int) time.Time { return out[i].SubmittedOn },
		func(i int) int64 { return out[i].ID },
		func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (r *mockReviewRepo) SearchDisciplineReviews(_ context.Context, f repository.ReviewFilter) ([]model.DisciplineReview, error) {
	out := []model.DisciplineReview{}
	for _, rv := range r.s.disciplineReviews {
		if r.matches(f, nil, rv.DisciplineID, rv.Difficulty, rv.Rating) {
			out = append(out, *rv)
		}
	}
	orderReviews(f.Order, len(out),
		func(i int) time.Time { return out[i].SubmittedOn },
		func(i int) int64 { return out[i].ID },
		func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (r *mockReviewRepo) ListTeacherReviewsByUser(_ context.Context, userID int64) ([]model.TeacherReview, error) {
	out := []model.TeacherReview{}
	for _, rv := range r.s.teacherReviews {
		if rv.UserID == userID {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *mockReviewRepo) ListDisciplineReviewsByUser(_ context.Context, userID int64) ([]model.DisciplineReview, error) {
	out := []model.DisciplineReview{}
	for _, rv := range r.s.disciplineReviews {
		if rv.UserID == userID {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ── Mock RankingRepository ──

type mockRankingRepo struct{ s *mockStore }

func (r *mockRankingRepo) ratings(kind model.ReviewKind, id int64) []int {
	var out []int
	if kind == model.ReviewKindTeacher {
		for _, rv := range r.s.teacherReviews {
			if rv.TeacherID == id {
				out = append(out, rv.Rating)
			}
		}
		return out
	}
	for _, rv := range r.s.disciplineReviews {
		if rv.DisciplineID == id {
			out = append(out, rv.Rating)
		}
	}
	return out
}

func (r *mockRankingRepo) TopRated(_ context.Context, kind model.ReviewKind, limit int) ([]repository.RankedEntity, error) {
	var out []repository.RankedEntity
	if kind == model.ReviewKindTeacher {
		for _, t := range r.s.teachers {
			rs := r.ratings(kind, t.ID)
			out = append(out, repository.RankedEntity{
				ID: t.ID, Name: t.Name, Surname: t.Surname,
				Average: rating.FromRatings(rs), ReviewCount: int64(len(rs)),
			})
		}
	} else {
		for _, d := range r.s.disciplines {
			rs := r.ratings(kind, d.ID)
			out = append(out, repository.RankedEntity{
				ID: d.ID, Name: d.Name, Faculty: d.Faculty, Type: d.Type,
				Average: rating.FromRatings(rs), ReviewCount: int64(len(rs)),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *mockRankingRepo) Average(_ context.Context, kind model.ReviewKind, id int64) (float64, error) {
	return rating.FromRatings(r.ratings(kind, id)), nil
}

// ── Mock PendingVerificationRepository ──

type mockVerificationRepo struct{ s *mockStore }

func (r *mockVerificationRepo) Create(_ context.Context, v *model.PendingVerification) error {
	if v.VerificationID == "" {
		v.VerificationID = fmt.Sprintf("00000000-0000-0000-0000-%012d", r.s.id())
	}
	r.s.verifications[v.VerificationID] = v
	return nil
}

func (r *mockVerificationRepo) GetByID(_ context.Context, id string) (*model.PendingVerification, error) {
	if v, ok := r.s.verifications[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockVerificationRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.PendingVerification, error) {
	return r.GetByID(ctx, id)
}

func (r *mockVerificationRepo) Update(_ context.Context, v *model.PendingVerification) error {
	r.s.verifications[v.VerificationID] = v
	return nil
}

func (r *mockVerificationRepo) ExpirePending(_ context.Context, email, purpose string) error {
	for _, v := range r.s.verifications {
		if v.Email == email && v.Purpose == purpose && v.Status == model.VerificationStatusPending {
			v.Status = model.VerificationStatusExpired
		}
	}
	return nil
}

// ── Mock 外部依赖 ──

type mockCache struct {
	data          map[string][]byte
	invalidations int    // 即缓存代数
	beforeSet     func() // 模拟查库与回写之间发生的并发写入
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mockCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *mockCache) Generation(_ context.Context) (int64, error) {
	return int64(c.invalidations), nil
}

func (c *mockCache) BumpGeneration(_ context.Context) error {
	c.invalidations++
	return nil
}

type mockBlacklist struct {
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.revoked[jti] = ttl
	return nil
}

func (b *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.revoked[jti]
	return ok, nil
}

// captureNotifier 记录最近一次下发的验证码
type captureNotifier struct {
	email, purpose, code string
	sent                 int
}

func (n *captureNotifier) SendVerificationCode(_ context.Context, email, purpose, code string) error {
	n.email, n.purpose, n.code = email, purpose, code
	n.sent++
	return nil
}
