package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/domain/repository"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ReportCategories filas de la hoja de análisis, en orden. ĐẠI LÝ y LẮP ĐẶT / XẾP DỠ
// no tienen tipo de servicio asociado y quedan en cero.
var ReportCategories = []string{
	"HẢI QUAN",
	"VẬN CHUYỂN",
	"CƯỚC QUỐC TẾ",
	"ĐẠI LÝ",
	"LẮP ĐẶT / XẾP DỠ",
	"DOANH THU KHÁC",
}

var hundred = decimal.NewFromInt(100)

// ReportUseCase reportes de lotes: libro Excel y guía PDF.
type ReportUseCase struct {
	uows    repository.UnitOfWorkFactory
	excel   ports.CargoReportExporter
	waybill ports.CargoWaybillGenerator
	log     *logger.Logger
	now     func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(uows repository.UnitOfWorkFactory, excel ports.CargoReportExporter, waybill ports.CargoWaybillGenerator, log *logger.Logger) *ReportUseCase {
	return &ReportUseCase{uows: uows, excel: excel, waybill: waybill, log: log.Component("report"), now: time.Now}
}

// ExportExcel genera el libro de lotes creados entre from y to (ambos días incluidos).
// Si falta alguno de los dos límites se exporta el mes en curso.
func (uc *ReportUseCase) ExportExcel(ctx context.Context, from, to *time.Time) (*dto.ExportFile, error) {
	start, end, name := uc.exportRange(from, to)
	cargos, err := uc.uows.New().Cargos().ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	year := 0
	if last := end.Add(-time.Nanosecond); start.Year() == last.Year() {
		year = start.Year()
	}
	analysis := BusinessAnalysis(cargos, year)
	content, err := uc.excel.CargoWorkbook(cargos, analysis)
	if err != nil {
		return nil, fmt.Errorf("report: generar excel: %w", err)
	}
	uc.log.Info().Int("cargos", len(cargos)).Str("file", name).Msg("reporte excel generado")
	return &dto.ExportFile{FileName: name, ContentType: xlsxContentType, Content: content}, nil
}

// exportRange devuelve [start, end) y el nombre del archivo.
func (uc *ReportUseCase) exportRange(from, to *time.Time) (time.Time, time.Time, string) {
	if from == nil || to == nil {
		now := uc.now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), "BaoCaoLogistics_All_" + now.Format("02012006_1504") + ".xlsx"
	}
	start := dayStart(*from)
	end := dayStart(*to).AddDate(0, 0, 1)
	return start, end, fmt.Sprintf("BaoCaoLogistics_%s_%s.xlsx", from.Format("02012006"), to.Format("02012006"))
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CargoPDF genera la guía PDF de un lote. ErrNotFound si no existe.
func (uc *ReportUseCase) CargoPDF(ctx context.Context, id uuid.UUID) (*dto.ExportFile, error) {
	uow := uc.uows.New()
	c, err := uow.Cargos().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	var shipper *entity.Shipper
	if c.ShipperID != nil {
		if shipper, err = uow.Shippers().GetByID(ctx, *c.ShipperID); err != nil {
			return nil, err
		}
	}
	content, err := uc.waybill.CargoWaybill(c, shipper)
	if err != nil {
		return nil, fmt.Errorf("report: generar pdf: %w", err)
	}
	return &dto.ExportFile{FileName: "GuiaLoHang_" + c.Code + ".pdf", ContentType: pdfContentType, Content: content}, nil
}

// BusinessAnalysis agrupa ingresos y costos por categoría y mes de exchange_date.
// Con year > 0 solo cuentan las fechas de ese año; con 0 se agrupa solo por mes.
// Los lotes sin exchange_date no se cuentan.
func BusinessAnalysis(cargos []*entity.Cargo, year int) *dto.BusinessAnalysis {
	index := make(map[string]int, len(ReportCategories))
	out := &dto.BusinessAnalysis{Year: year, Categories: make([]dto.BusinessCategory, len(ReportCategories))}
	for i, name := range ReportCategories {
		index[name] = i
		out.Categories[i] = newCategory(name)
	}
	out.Total = newCategory("TOTAL")

	for _, c := range cargos {
		if c.ExchangeDate == nil || (year > 0 && c.ExchangeDate.Year() != year) {
			continue
		}
		m := int(c.ExchangeDate.Month()) - 1
		i, ok := index[c.ServiceType.ReportCategory()]
		if !ok {
			i = len(ReportCategories) - 1
		}
		cat := &out.Categories[i]
		cat.Months[m].Revenue = cat.Months[m].Revenue.Add(c.EstimatedTotalAmount)
		cat.Months[m].Cost = cat.Months[m].Cost.Add(c.Cost())
		out.Total.Months[m].Revenue = out.Total.Months[m].Revenue.Add(c.EstimatedTotalAmount)
		out.Total.Months[m].Cost = out.Total.Months[m].Cost.Add(c.Cost())
	}

	finishTotals(&out.Total)
	for i := range out.Categories {
		cat := &out.Categories[i]
		for m := range cat.Months {
			settle(&cat.Months[m], out.Total.Months[m].Profit)
		}
		sumYear(cat)
		settle(&cat.Year, out.Total.Year.Profit)
	}
	return out
}

func newCategory(name string) dto.BusinessCategory {
	c := dto.BusinessCategory{Name: name}
	for m := range c.Months {
		c.Months[m] = zeroMetrics()
	}
	c.Year = zeroMetrics()
	return c
}

func zeroMetrics() dto.BusinessMetrics {
	return dto.BusinessMetrics{
		Revenue:     decimal.Zero,
		Cost:        decimal.Zero,
		Profit:      decimal.Zero,
		Margin:      decimal.Zero,
		GrossMargin: decimal.Zero,
	}
}

// finishTotals completa la fila TOTAL: su gross margin es 100 si hubo ganancia, si no 0.
func finishTotals(t *dto.BusinessCategory) {
	for m := range t.Months {
		settleTotal(&t.Months[m])
	}
	sumYear(t)
	settleTotal(&t.Year)
}

func settleTotal(x *dto.BusinessMetrics) {
	x.Profit = x.Revenue.Sub(x.Cost)
	x.Margin = ratio(x.Profit, x.Revenue)
	x.GrossMargin = decimal.Zero
	if x.Profit.IsPositive() {
		x.GrossMargin = hundred
	}
}

// settle calcula ganancia, margen y gross margin respecto de la ganancia total.
func settle(x *dto.BusinessMetrics, totalProfit decimal.Decimal) {
	x.Profit = x.Revenue.Sub(x.Cost)
	x.Margin = ratio(x.Profit, x.Revenue)
	x.GrossMargin = ratio(x.Profit, totalProfit)
}

// ratio part / whole * 100, o 0 si whole <= 0.
func ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func sumYear(c *dto.BusinessCategory) {
	c.Year.Revenue, c.Year.Cost = decimal.Zero, decimal.Zero
	for _, m := range c.Months {
		c.Year.Revenue = c.Year.Revenue.Add(m.Revenue)
		c.Year.Cost = c.Year.Cost.Add(m.Cost)
	}
}
