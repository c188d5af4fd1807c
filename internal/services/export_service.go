package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"holou/internal/repositories"
	"holou/pkg/utils"
)

const exportSheet = "Sheet1"

// ExportKinds lists the record sets staff can download.
var ExportKinds = []string{"wishlist", "feedback", "partners", "plans"}

type ExportServiceInterface interface {
	Export(ctx context.Context, kind string) (filename string, data []byte, err error)
}

type ExportService struct {
	wishlist repositories.WishlistRepositoryInterface
	feedback repositories.FeedbackRepositoryInterface
	partners repositories.PartnerRepositoryInterface
	plans    repositories.PlanRepositoryInterface
	now      func() time.Time
}

func NewExportService(
	wishlist repositories.WishlistRepositoryInterface,
	feedback repositories.FeedbackRepositoryInterface,
	partners repositories.PartnerRepositoryInterface,
	plans repositories.PlanRepositoryInterface,
) ExportServiceInterface {
	return &ExportService{wishlist: wishlist, feedback: feedback, partners: partners, plans: plans, now: time.Now}
}

func (s *ExportService) Export(ctx context.Context, kind string) (string, []byte, error) {
	header, rows, err := s.collect(ctx, kind)
	if err != nil {
		return "", nil, err
	}

	data, err := buildWorkbook(header, rows)
	if err != nil {
		return "", nil, fmt.Errorf("build %s workbook: %w", kind, err)
	}
	return fmt.Sprintf("holou_%s_%s.xlsx", kind, s.now().Format("20060102")), data, nil
}

func (s *ExportService) collect(ctx context.Context, kind string) ([]interface{}, [][]interface{}, error) {
	switch kind {
	case "wishlist":
		entries, err := s.wishlist.ListWishlist(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		rows := make([][]interface{}, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []interface{}{e.Email, e.FirstName, e.LastName, e.CompanyName, e.JobTitle, e.AdditionalInfo, utils.FormatUnix(e.CreatedAt)})
		}
		return []interface{}{"Email", "First name", "Last name", "Company", "Job title", "Additional info", "Created at"}, rows, nil

	case "feedback":
		entries, err := s.feedback.ListAllFeedback(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		rows := make([][]interface{}, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []interface{}{e.FeedbackText, e.Email, e.Name, utils.FormatUnix(e.CreatedAt)})
		}
		return []interface{}{"Feedback", "Email", "Name", "Created at"}, rows, nil

	case "partners":
		entries, err := s.partners.ListPartnerInterests(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		rows := make([][]interface{}, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []interface{}{e.Email, e.CompanyName, e.Name, e.Message, utils.FormatUnix(e.CreatedAt)})
		}
		return []interface{}{"Email", "Company", "Name", "Message", "Created at"}, rows, nil

	case "plans":
		plans, err := s.plans.ListAllPlans(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		rows := make([][]interface{}, 0, len(plans))
		for _, p := range plans {
			rows = append(rows, []interface{}{
				p.ID.String(), string(p.Status), p.Source, p.ProjectDescription, p.DeveloperLevel,
				p.SoftwareType, p.Framework, utils.FormatUnix(p.CreatedAt), utils.FormatUnixPtr(p.ApprovedAt),
			})
		}
		return []interface{}{"ID", "Status", "Source", "Project", "Level", "Software type", "Framework", "Created at", "Approved at"}, rows, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", utils.ErrUnknownExport, kind)
}

func buildWorkbook(header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
