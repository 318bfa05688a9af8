package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"course-review/config"
	"course-review/internal/model"
	"course-review/internal/repository"
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出教师与课程排行榜为 Excel (.xlsx)，每类一个 Sheet
//   - 直接查询数据库聚合结果，不经过排行榜缓存
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRankings 导出排行榜，kinds 为空时导出全部类别
	ExportRankings(ctx context.Context, kinds []model.ReviewKind) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.ReviewConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ReviewConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRankings 导出排行榜为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "教师排行" / "课程排行"
//   - 第 1 行标题，第 2 行表头，之后每行一个实体
//   - 条数上限为 review.ranking_max_limit
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportRankings(ctx context.Context, kinds []model.ReviewKind) (*bytes.Buffer, string, error) {
	if len(kinds) == 0 {
		kinds = []model.ReviewKind{model.ReviewKindTeacher, model.ReviewKindDiscipline}
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, kind := range kinds {
		entities, err := s.repo.Ranking.TopRated(ctx, kind, s.cfg.RankingMaxLimit)
		if err != nil {
			s.logger.Error("查询排行榜失败", zap.String("kind", kind.String()), zap.Error(err))
			return nil, "", err
		}

		sheetName := rankingSheetName(kind)
		idx, err := f.NewSheet(sheetName)
		if err != nil {
			s.logger.Error("创建 Sheet 失败", zap.String("sheet", sheetName), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		writeRankingSheet(f, sheetName, kind, entities, headerStyle)
	}
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排行榜_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// writeRankingSheet 写入单个类别的排行数据
func writeRankingSheet(f *excelize.File, sheet string, kind model.ReviewKind, entities []repository.RankedEntity, headerStyle int) {
	headers := []string{"排名", "名称"}
	if kind == model.ReviewKindTeacher {
		headers = append(headers, "姓氏")
	} else {
		headers = append(headers, "学院", "类型")
	}
	headers = append(headers, "平均分", "评价数")

	// 标题行
	f.SetCellValue(sheet, "A1", sheet)
	f.MergeCell(sheet, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
		f.SetColWidth(sheet, colName(i), colName(i), 16)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	for i, e := range entities {
		row := i + 3
		values := []interface{}{i + 1, e.Name}
		if kind == model.ReviewKindTeacher {
			values = append(values, e.Surname)
		} else {
			values = append(values, e.Faculty, e.Type)
		}
		values = append(values, e.Average, e.ReviewCount)

		for col, v := range values {
			f.SetCellValue(sheet, cell(colName(col), row), v)
		}
	}
}

func rankingSheetName(kind model.ReviewKind) string {
	if kind == model.ReviewKindDiscipline {
		return "课程排行"
	}
	return "教师排行"
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
