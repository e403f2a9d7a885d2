package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/packerp/packerp/internal/gst/model"
)

func TestRecordLine(t *testing.T) {
	t.Run("Persists Line With Computed Tax Split", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewInvoiceService(db)

		mock.ExpectExec(`INSERT INTO "gst_invoice_lines"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		line, err := svc.RecordLine(context.Background(), "org-1", &model.CreateInvoiceLineDTO{
			InvoiceNumber:      "INV-2026-0042",
			Direction:          model.DirectionOutward,
			TaxableValue:       10000,
			GSTRate:            18,
			SupplierStateCode:  "27",
			RecipientStateCode: "27",
		})

		assert.NoError(t, err)
		assert.Equal(t, 900.0, line.CGST)
		assert.Equal(t, 900.0, line.SGST)
		assert.Equal(t, 0.0, line.IGST)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Missing Invoice Number", func(t *testing.T) {
		db, _ := setupTestDB(t)
		svc := NewInvoiceService(db)

		_, err := svc.RecordLine(context.Background(), "org-1", &model.CreateInvoiceLineDTO{
			Direction:          model.DirectionOutward,
			TaxableValue:       100,
			GSTRate:            18,
			SupplierStateCode:  "27",
			RecipientStateCode: "29",
		})
		assert.Error(t, err)
	})

	t.Run("Rejects Unknown Direction", func(t *testing.T) {
		db, _ := setupTestDB(t)
		svc := NewInvoiceService(db)

		_, err := svc.RecordLine(context.Background(), "org-1", &model.CreateInvoiceLineDTO{
			InvoiceNumber:      "INV-2026-0042",
			Direction:          "sideways",
			TaxableValue:       100,
			GSTRate:            18,
			SupplierStateCode:  "27",
			RecipientStateCode: "29",
		})
		assert.Error(t, err)
	})
}

func TestSummary(t *testing.T) {
	t.Run("Offsets ITC Against Outward Liability", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewInvoiceService(db)

		mock.ExpectQuery(`SELECT direction, SUM\(taxable_value\) AS taxable_value`).
			WithArgs("org-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(
				[]string{"direction", "taxable_value", "cgst", "sgst", "igst"}).
				AddRow("outward", 100000.0, 9000.0, 9000.0, 3600.0).
				AddRow("inward", 40000.0, 2000.0, 2000.0, 5000.0))

		summary, err := svc.Summary(context.Background(), "org-1", "2026-08")

		assert.NoError(t, err)
		assert.Equal(t, "2026-08", summary.Period)
		assert.Equal(t, 100000.0, summary.OutwardTaxableValue)
		assert.Equal(t, 7000.0, summary.NetPayableCGST)
		assert.Equal(t, 7000.0, summary.NetPayableSGST)
		// ITC exceeds the IGST liability, clamped to zero.
		assert.Equal(t, 0.0, summary.NetPayableIGST)
		assert.Equal(t, 14000.0, summary.NetPayableTotal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Malformed Period", func(t *testing.T) {
		db, _ := setupTestDB(t)
		svc := NewInvoiceService(db)

		_, err := svc.Summary(context.Background(), "org-1", "August 2026")
		assert.Error(t, err)
	})

	t.Run("Empty Period Yields Zero Summary", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewInvoiceService(db)

		mock.ExpectQuery(`SELECT direction, SUM\(taxable_value\) AS taxable_value`).
			WithArgs("org-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(
				[]string{"direction", "taxable_value", "cgst", "sgst", "igst"}))

		summary, err := svc.Summary(context.Background(), "org-1", "2026-01")

		assert.NoError(t, err)
		assert.Equal(t, 0.0, summary.NetPayableTotal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetLinesPeriodFilter(t *testing.T) {
	db, mock := setupTestDB(t)
	svc := NewInvoiceService(db)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "gst_invoice_lines"`).
		WithArgs("org-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "gst_invoice_lines"`).
		WithArgs("org-1", from, to, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_number", "organization_id"}).
			AddRow("INV-2026-0042", "org-1"))

	lines, total, err := svc.GetLines(context.Background(), "org-1", from, to, 0, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, lines, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
