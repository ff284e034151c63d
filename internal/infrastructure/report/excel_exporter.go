// Package report genera el libro Excel de lotes con excelize.
//
// Hoja 1 "Master Data (All customers)": cabecera combinada en las filas 1 a 4 y un
// lote por fila desde la fila 5. Hoja 2 "Báo cáo": cinco tablas (doanh thu, chi phí,
// lợi nhuận, tỉ suất, gross margin) por categoría de servicio y mes.
package report

import (
	"fmt"
	"time"

	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	MasterSheet   = "Master Data (All customers)"
	AnalysisSheet = "Báo cáo"

	headerFill   = "#FFE699"
	firstDataRow = 5
	lastColumn   = 55
)

// numFmt ids integrados de Excel.
const (
	fmtThousands = 3  // #,##0
	fmtPercent   = 10 // 0.00%
)

var hundred = decimal.NewFromInt(100)

// headerCell celda combinada de la cabecera maestra: columnas c1..c2, filas r1..r2.
type headerCell struct {
	c1, r1, c2, r2 int
	label          string
}

// groupLabels categorías de las secciones 33-53 de la hoja maestra.
var groupLabels = []string{"HẢI QUAN", "VẬN CHUYỂN", "CƯỚC QUỐC TẾ", "ĐẠI LÝ", "XẾP DỠ / LẮP ĐẶT", "KHÁC", "TOTAL"}

var masterHeader = buildMasterHeader()

func buildMasterHeader() []headerCell {
	h := []headerCell{
		{1, 1, 1, 4, "Số lô hàng"},
		{2, 1, 2, 4, "Tên Khách Hàng - TT"},
		{3, 1, 3, 4, "Tên Chủ Hàng"},
		{4, 1, 4, 4, "Tên Nhân Viên"},
		{5, 1, 5, 4, "Loại Hình"},
		{6, 1, 6, 4, "Nơi Giao"},
		{7, 1, 11, 2, "SỐ LƯỢNG HÀNG HÓA"},
		{7, 3, 10, 3, "Hàng SEA"},
		{7, 4, 7, 4, "20'"},
		{8, 4, 8, 4, "40'"},
		{9, 4, 10, 4, "Hàng lẻ / LCL"},
		{11, 3, 11, 4, "Hàng Air (CW)"},
		{12, 1, 12, 4, "Ngày nhận chứng từ"},
		{13, 1, 13, 4, "Ngày giao hàng"},
		{14, 1, 14, 4, "Tiền Ứng"},
		{15, 1, 26, 2, "CÁC CHI PHÍ CỦA CTY THIÊN THANH"},
		{27, 1, 32, 2, "CÁC CHI PHÍ TRẢ HỘ CHO KHÁCH HÀNG"},
		{33, 1, 39, 2, "CHI PHÍ ĐẦU VÀO"},
		{40, 1, 46, 2, "DOANH THU BÁN RA"},
		{47, 1, 53, 2, "LỢI NHUẬN/CHI PHÍ"},
		{54, 1, 55, 2, "LỢI NHUẬN"},
		{54, 3, 54, 4, "PROFIT / LOSS"},
		{55, 3, 55, 4, "%"},
	}
	sub := func(start int, labels ...string) {
		for i, l := range labels {
			h = append(h, headerCell{start + i, 3, start + i, 4, l})
		}
	}
	sub(15, "ĐMức + LPHQ", "Phi Nâng/hạ", "Phi vận chuyển", "SỐ Lượng xe",
		"Xe Thien Thanh Xe thầu phụ", "Phi Bốc xếp / Xếp dỡ hàng hóa MMTB",
		"Cước Tàu", "Phí khác ...", "làm đại lý / Làm hàng tại cảng",
		"Chuyển khoản", "TOTAL", "Ghi Chú")
	sub(27, "Phi D.O/ Handling", "THC", "Phi CFS / Ari port fee", "Phi nâng hạ",
		"Phi BILL , Phi lưu kho, lưu bãi,", "Thuế NK Cước Tàu")
	sub(33, groupLabels...)
	sub(40, groupLabels...)
	sub(47, groupLabels...)
	return h
}

// columnWidths anchos de la hoja maestra; las columnas 15 a 56 usan 18.
var columnWidths = map[int]float64{
	1: 12, 2: 20, 3: 18, 4: 15, 5: 12, 6: 20, 7: 8, 8: 8,
	9: 12, 10: 12, 11: 12, 12: 18, 13: 15, 14: 15,
}

// ExcelExporter implementa ports.CargoReportExporter.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// CargoWorkbook arma el libro con la hoja maestra y la hoja de análisis.
func (e *ExcelExporter) CargoWorkbook(cargos []*entity.Cargo, analysis *dto.BusinessAnalysis) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", MasterSheet); err != nil {
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeMaster(f, st, cargos); err != nil {
		return nil, fmt.Errorf("report: hoja maestra: %w", err)
	}
	if _, err := f.NewSheet(AnalysisSheet); err != nil {
		return nil, err
	}
	if err := writeAnalysis(f, st, analysis); err != nil {
		return nil, fmt.Errorf("report: hoja de análisis: %w", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	header, title, tableTitle, tableHead int
	text, money, percent, total          int
	totalMoney, totalPercent             int
}

func newStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	st := &styles{}
	defs := []struct {
		dst *int
		s   *excelize.Style
	}{
		{&st.header, &excelize.Style{Border: border, Fill: fill(headerFill), Font: &excelize.Font{Bold: true}, Alignment: center}},
		{&st.title, &excelize.Style{Fill: fill("#D3D3D3"), Font: &excelize.Font{Bold: true, Size: 16}, Alignment: center}},
		{&st.tableTitle, &excelize.Style{Border: border, Fill: fill("#ADD8E6"), Font: &excelize.Font{Bold: true}, Alignment: center}},
		{&st.tableHead, &excelize.Style{Border: border, Fill: fill("#F2F2F2"), Font: &excelize.Font{Bold: true}, Alignment: center}},
		{&st.text, &excelize.Style{Border: border}},
		{&st.money, &excelize.Style{Border: border, NumFmt: fmtThousands}},
		{&st.percent, &excelize.Style{Border: border, NumFmt: fmtPercent}},
		{&st.total, &excelize.Style{Border: border, Font: &excelize.Font{Bold: true}}},
		{&st.totalMoney, &excelize.Style{Border: border, Font: &excelize.Font{Bold: true}, NumFmt: fmtThousands}},
		{&st.totalPercent, &excelize.Style{Border: border, Font: &excelize.Font{Bold: true}, NumFmt: fmtPercent}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.s)
		if err != nil {
			return nil, fmt.Errorf("report: estilo: %w", err)
		}
		*d.dst = id
	}
	return st, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

func writeMaster(f *excelize.File, st *styles, cargos []*entity.Cargo) error {
	sh := MasterSheet
	for col := 1; col <= 56; col++ {
		w, ok := columnWidths[col]
		if !ok {
			w = 18
		}
		if err := f.SetColWidth(sh, colName(col), colName(col), w); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sh, cell(1, 1), cell(lastColumn, 4), st.header); err != nil {
		return err
	}
	for _, h := range masterHeader {
		if h.c1 != h.c2 || h.r1 != h.r2 {
			if err := f.MergeCell(sh, cell(h.c1, h.r1), cell(h.c2, h.r2)); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(sh, cell(h.c1, h.r1), h.label); err != nil {
			return err
		}
	}

	for i, c := range cargos {
		if err := writeCargoRow(f, st, firstDataRow+i, c); err != nil {
			return err
		}
	}
	return f.SetPanes(sh, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      4,
		TopLeftCell: cell(3, firstDataRow),
		ActivePane:  "bottomRight",
	})
}

// writeCargoRow escribe un lote. Las secciones de costo, ingreso y ganancia llevan el
// valor en la columna de la categoría del lote y en TOTAL; el resto queda en "-".
func writeCargoRow(f *excelize.File, st *styles, row int, c *entity.Cargo) error {
	sh := MasterSheet
	values := make([]any, lastColumn)
	for i := range values {
		values[i] = "-"
	}
	values[0] = c.Code
	values[1] = c.CustomerCompanyName
	values[2] = c.CustomerPersonInCharge
	values[3] = c.EmployeeCreate
	values[4] = serviceCode(c.ServiceType)
	values[5] = c.CustomerAddress
	values[10] = c.ShippingFee.InexactFloat64()
	values[11] = dateOrDash(c.LicenseDate)
	values[12] = dateOrDash(c.ExchangeDate)
	values[13] = c.AdvanceMoney.InexactFloat64()

	cost := c.Cost()
	profit := c.EstimatedTotalAmount.Sub(cost)
	group := groupIndex(c.ServiceType)
	values[32+group] = cost.InexactFloat64()
	values[38] = cost.InexactFloat64()
	values[39+group] = c.EstimatedTotalAmount.InexactFloat64()
	values[45] = c.EstimatedTotalAmount.InexactFloat64()
	values[46+group] = profit.InexactFloat64()
	values[52] = profit.InexactFloat64()
	values[53] = profit.InexactFloat64()
	margin := decimal.Zero
	if c.EstimatedTotalAmount.IsPositive() {
		margin = profit.Div(c.EstimatedTotalAmount)
	}
	values[54] = margin.InexactFloat64()

	if err := f.SetSheetRow(sh, cell(1, row), &values); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, cell(1, row), cell(lastColumn, row), st.text); err != nil {
		return err
	}
	for _, col := range []int{11, 14} {
		if err := f.SetCellStyle(sh, cell(col, row), cell(col, row), st.money); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sh, cell(33, row), cell(54, row), st.money); err != nil {
		return err
	}
	return f.SetCellStyle(sh, cell(55, row), cell(55, row), st.percent)
}

// groupIndex posición de la categoría del lote dentro de groupLabels.
func groupIndex(s entity.ServiceType) int {
	switch s {
	case entity.ServiceExport:
		return 0
	case entity.ServiceImport:
		return 1
	case entity.ServiceExportImport:
		return 2
	default:
		return 5
	}
}

func serviceCode(s entity.ServiceType) string {
	switch s {
	case entity.ServiceExport:
		return "XUAT"
	case entity.ServiceImport:
		return "NHAP"
	default:
		return "XUAT NHAP"
	}
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
