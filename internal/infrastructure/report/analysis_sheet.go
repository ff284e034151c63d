package report

import (
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const analysisColumns = 15

var monthHeaders = []string{"STT", "LOẠI HÌNH DỊCH VỤ", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "TỔNG CỘNG"}

// analysisTable una de las cinco tablas: título y la métrica que muestra.
type analysisTable struct {
	title   string
	percent bool
	pick    func(dto.BusinessMetrics) decimal.Decimal
}

var analysisTables = []analysisTable{
	{"DOANH THU", false, func(m dto.BusinessMetrics) decimal.Decimal { return m.Revenue }},
	{"CHI PHÍ", false, func(m dto.BusinessMetrics) decimal.Decimal { return m.Cost }},
	{"LỢI NHUẬN", false, func(m dto.BusinessMetrics) decimal.Decimal { return m.Profit }},
	{"TỈ SUẤT LỢI NHUẬN", true, func(m dto.BusinessMetrics) decimal.Decimal { return m.Margin }},
	{"GROSS MARGIN for each segment compared to Total Gross profit (Ratio)", true,
		func(m dto.BusinessMetrics) decimal.Decimal { return m.GrossMargin }},
}

func writeAnalysis(f *excelize.File, st *styles, a *dto.BusinessAnalysis) error {
	sh := AnalysisSheet
	if err := f.SetColWidth(sh, "A", "A", 6); err != nil {
		return err
	}
	if err := f.SetColWidth(sh, "B", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sh, "C", colName(analysisColumns), 15); err != nil {
		return err
	}
	if err := f.MergeCell(sh, cell(1, 1), cell(analysisColumns, 1)); err != nil {
		return err
	}
	if err := f.SetCellValue(sh, cell(1, 1), "PHÂN TÍCH HOẠT ĐỘNG KINH DOANH"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, cell(1, 1), cell(analysisColumns, 1), st.title); err != nil {
		return err
	}

	row := 3
	for _, t := range analysisTables {
		next, err := writeAnalysisTable(f, st, row, t, a)
		if err != nil {
			return err
		}
		row = next + 1
	}
	return nil
}

// writeAnalysisTable escribe título, cabecera, una fila por categoría y TOTAL.
// Devuelve la fila siguiente a la tabla.
func writeAnalysisTable(f *excelize.File, st *styles, row int, t analysisTable, a *dto.BusinessAnalysis) (int, error) {
	sh := AnalysisSheet
	if err := f.MergeCell(sh, cell(1, row), cell(analysisColumns, row)); err != nil {
		return 0, err
	}
	if err := f.SetCellValue(sh, cell(1, row), t.title); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sh, cell(1, row), cell(analysisColumns, row), st.tableTitle); err != nil {
		return 0, err
	}
	row++
	if err := f.SetSheetRow(sh, cell(1, row), &monthHeaders); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sh, cell(1, row), cell(analysisColumns, row), st.tableHead); err != nil {
		return 0, err
	}
	row++

	valueStyle, totalStyle := st.money, st.totalMoney
	if t.percent {
		valueStyle, totalStyle = st.percent, st.totalPercent
	}
	for i, c := range a.Categories {
		if err := writeMetricsRow(f, row, i+1, c, t); err != nil {
			return 0, err
		}
		if err := styleMetricsRow(f, row, st.text, valueStyle); err != nil {
			return 0, err
		}
		row++
	}
	if err := writeMetricsRow(f, row, 0, a.Total, t); err != nil {
		return 0, err
	}
	if err := styleMetricsRow(f, row, st.total, totalStyle); err != nil {
		return 0, err
	}
	return row + 1, nil
}

func writeMetricsRow(f *excelize.File, row, n int, c dto.BusinessCategory, t analysisTable) error {
	values := make([]any, 0, analysisColumns)
	if n > 0 {
		values = append(values, n)
	} else {
		values = append(values, "")
	}
	values = append(values, c.Name)
	for _, m := range c.Months {
		values = append(values, metricValue(t.pick(m), t.percent))
	}
	values = append(values, metricValue(t.pick(c.Year), t.percent))
	return f.SetSheetRow(AnalysisSheet, cell(1, row), &values)
}

func styleMetricsRow(f *excelize.File, row, labelStyle, valueStyle int) error {
	if err := f.SetCellStyle(AnalysisSheet, cell(1, row), cell(2, row), labelStyle); err != nil {
		return err
	}
	return f.SetCellStyle(AnalysisSheet, cell(3, row), cell(analysisColumns, row), valueStyle)
}

// metricValue convierte los porcentajes (0-100) a fracción para el formato 0.00%.
func metricValue(d decimal.Decimal, percent bool) float64 {
	if percent {
		return d.Div(hundred).InexactFloat64()
	}
	return d.InexactFloat64()
}
