package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"calsync/internal/domain"
	"calsync/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	failuresSheet = "Sync Failures"
	auditSheet    = "Audit Log"
)

// Reporter writes XLSX reconciliation reports for operators: every
// unresolved ledger row plus the recent audit trail.
type Reporter struct {
	store domain.Store
	path  string
}

func NewReporter(store domain.Store, path string) *Reporter {
	return &Reporter{store: store, path: path}
}

// Write produces the report file and returns its path.
func (r *Reporter) Write(ctx context.Context, auditLimit int) (string, error) {
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	failures, err := r.store.UnresolvedFailures(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting unresolved failures: %v", err)
	}

	entries, err := r.store.RecentSyncLog(ctx, auditLimit)
	if err != nil {
		return "", fmt.Errorf("error getting sync log: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeFailuresSheet(f, failures); err != nil {
		return "", err
	}
	if err := writeAuditSheet(f, entries); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("sync_report_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	fullPath := filepath.Join(r.path, fileName)
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("error saving export file: %v", err)
	}

	return fullPath, nil
}

func writeFailuresSheet(f *excelize.File, failures []models.SyncFailure) error {
	index, err := f.NewSheet(failuresSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Interaction ID", "Action", "Error", "Retry Count", "Last Retry", "Next Retry", "Created"}
	writeHeaderRow(f, failuresSheet, headers)

	for i, failure := range failures {
		row := i + 2
		_ = f.SetCellValue(failuresSheet, cell("A", row), failure.InteractionID.String())
		_ = f.SetCellValue(failuresSheet, cell("B", row), failure.Action)
		_ = f.SetCellValue(failuresSheet, cell("C", row), failure.ErrorMessage)
		_ = f.SetCellValue(failuresSheet, cell("D", row), failure.RetryCount)
		_ = f.SetCellValue(failuresSheet, cell("E", row), formatTimePtr(failure.LastRetryAt))
		_ = f.SetCellValue(failuresSheet, cell("F", row), formatTimePtr(failure.NextRetryAt))
		_ = f.SetCellValue(failuresSheet, cell("G", row), failure.CreatedAt.Format(time.RFC3339))
	}

	_ = f.SetColWidth(failuresSheet, "A", "A", 38)
	_ = f.SetColWidth(failuresSheet, "B", "B", 10)
	_ = f.SetColWidth(failuresSheet, "C", "C", 60)
	_ = f.SetColWidth(failuresSheet, "D", "G", 22)

	return nil
}

func writeAuditSheet(f *excelize.File, entries []models.SyncLogEntry) error {
	if _, err := f.NewSheet(auditSheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"Time", "Interaction ID", "Event ID", "Action", "Status", "Error", "Actor"}
	writeHeaderRow(f, auditSheet, headers)

	for i, entry := range entries {
		row := i + 2
		eventID := ""
		if entry.EventID != nil {
			eventID = entry.EventID.String()
		}
		errMsg := ""
		if entry.ErrorMessage != nil {
			errMsg = *entry.ErrorMessage
		}
		_ = f.SetCellValue(auditSheet, cell("A", row), entry.CreatedAt.Format(time.RFC3339))
		_ = f.SetCellValue(auditSheet, cell("B", row), entry.InteractionID.String())
		_ = f.SetCellValue(auditSheet, cell("C", row), eventID)
		_ = f.SetCellValue(auditSheet, cell("D", row), entry.Action)
		_ = f.SetCellValue(auditSheet, cell("E", row), entry.Status)
		_ = f.SetCellValue(auditSheet, cell("F", row), errMsg)
		_ = f.SetCellValue(auditSheet, cell("G", row), entry.CreatedBy.String())
	}

	_ = f.SetColWidth(auditSheet, "A", "C", 38)
	_ = f.SetColWidth(auditSheet, "D", "E", 12)
	_ = f.SetColWidth(auditSheet, "F", "F", 60)
	_ = f.SetColWidth(auditSheet, "G", "G", 38)

	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		col := string(rune('A' + i))
		_ = f.SetCellValue(sheet, cell(col, 1), header)
	}
	lastCol := string(rune('A' + len(headers) - 1))
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
