package usecase

import (
	"bytes"
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const invoiceSheet = "Invoices"

var invoiceHeaders = []string{
	"Number", "InvoiceDate", "BookingID", "Customer", "Phone", "Email",
	"Court", "BilledUnits", "Amount", "Status", "PaymentMethod", "PaidAt", "RefundReason",
}

// ExportService renders invoice reports as spreadsheets.
type ExportService interface {
	// ExportInvoices returns an xlsx workbook of invoices dated From..To and
	// a file name for it.
	ExportInvoices(ctx context.Context, req *request.ExportInvoicesRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewExportService(repo *repository.Repository, log *zap.Logger) ExportService {
	return &exportService{
		repo: repo,
		log:  log.With(zap.String("service", "export")),
	}
}

func (s *exportService) ExportInvoices(ctx context.Context, req *request.ExportInvoicesRequest) (*bytes.Buffer, string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, "", validationError(errs)
	}

	filter, err := invoiceFilter("", req.From, req.To)
	if err != nil {
		return nil, "", err
	}

	invoices, err := s.repo.Invoice.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, "", fmt.Errorf("export invoices: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, "", fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range invoiceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(invoiceSheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("write header %s: %w", header, err)
		}
	}

	for i, inv := range invoices {
		if err := f.SetSheetRow(invoiceSheet, fmt.Sprintf("A%d", i+2), invoiceRow(inv)); err != nil {
			return nil, "", fmt.Errorf("write invoice %s: %w", inv.Number, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("render workbook: %w", err)
	}

	s.log.Info("Invoices exported",
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.Int("count", len(invoices)),
	)

	return buf, fmt.Sprintf("invoices_%s_%s.xlsx", req.From, req.To), nil
}

func invoiceRow(inv *entity.Invoice) *[]any {
	row := []any{
		inv.Number,
		inv.InvoiceDate.Format(utils.DateLayout),
		inv.BookingID.String(),
		inv.CustomerName,
		deref(inv.CustomerPhone),
		deref(inv.CustomerEmail),
		inv.CourtName,
		inv.BilledUnits,
		inv.Amount.InexactFloat64(),
		string(inv.Status),
		"",
		"",
		deref(inv.RefundReason),
	}
	if inv.PaymentMethod != nil {
		row[10] = string(*inv.PaymentMethod)
	}
	if inv.PaidAt != nil {
		row[11] = inv.PaidAt.Format("2006-01-02 15:04")
	}
	return &row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
