// Package pdf genera la guía (phiếu giao hàng) de un lote en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: PHIEU GIAO HANG         │  Codigo del lote + fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: empresa / responsable / direccion                 │
//	│  CONDUCTOR: nombre / vehiculo / telefono                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: servicio, fechas, cantidad                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MONTOS: estimado / anticipo / flete / utilidad             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el codigo + firmas                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoWaybillGenerator implementa ports.CargoWaybillGenerator usando Maroto v2.
// TODO: registrar una fuente TTF Unicode con WithCustomFonts; helvetica no dibuja
// todos los diacríticos vietnamitas de los datos del cliente.
type MarotoWaybillGenerator struct {
	company string
}

// NewMarotoWaybillGenerator construye el generador; company aparece como autor y encabezado.
func NewMarotoWaybillGenerator(company string) *MarotoWaybillGenerator {
	return &MarotoWaybillGenerator{company: company}
}

// CargoWaybill genera el PDF y devuelve sus bytes. shipper puede ser nil.
func (g *MarotoWaybillGenerator) CargoWaybill(c *entity.Cargo, shipper *entity.Shipper) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Phieu giao hang "+c.Code, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(c))
	m.AddRows(shipperRow(shipper))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(detailRows(c)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(amountsRow(c))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(c))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, c *entity.Cargo) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "LOGISTICS"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("PHIEU GIAO HANG / WAYBILL", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SO LO HANG", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(c.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Ngay tao: "+c.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Cargo) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("KHACH HANG", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.CustomerCompanyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Nguoi phu trach: %s   |   Dia chi: %s",
				nonEmpty(c.CustomerPersonInCharge, "-"),
				nonEmpty(c.CustomerAddress, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func shipperRow(s *entity.Shipper) core.Row {
	detail := "Chua phan cong tai xe"
	if s != nil {
		detail = fmt.Sprintf("%s   |   Xe: %s   |   Tel: %s",
			s.Name, nonEmpty(s.VehicleType.Label(), "-"), nonEmpty(s.Phone, "-"))
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TAI XE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(detail, props.Text{Size: 8, Top: 7}),
		),
	)
}

// detailRows: pares etiqueta / valor del lote.
func detailRows(c *entity.Cargo) []core.Row {
	quantity := "-"
	if c.QuantityOfShipper != nil {
		quantity = fmt.Sprintf("%d", *c.QuantityOfShipper)
	}
	pairs := [][2]string{
		{"Loai hinh", c.ServiceType.Label()},
		{"Nhan vien", nonEmpty(c.EmployeeCreate, "-")},
		{"Ngay nhan chung tu", formatDate(c.LicenseDate)},
		{"Ngay giao hang", formatDate(c.ExchangeDate)},
		{"So luong tai xe", quantity},
	}
	rows := make([]core.Row, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(p[0], props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(8).Add(text.New(p[1], props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

// amountsRow: bloque de montos alineado a la derecha.
func amountsRow(c *entity.Cargo) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	profit := c.EstimatedTotalAmount.Sub(c.Cost())

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Tong du kien:"),
			label("Tien ung:"),
			label("Cuoc van chuyen:"),
			text.New("Loi nhuan:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2,
			}),
		),
		col.New(4).Add(
			value(money.VND(c.EstimatedTotalAmount)),
			value(money.VND(c.AdvanceMoney)),
			value(money.VND(c.ShippingFee)),
			text.New(money.VND(profit), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1,
			}),
		),
		col.New(2),
	)
}

// footerRow: QR con el código del lote y espacio para firmas.
func footerRow(c *entity.Cargo) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(c.Code, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Nguoi giao", props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3}),
			text.New("Nguoi nhan", props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Align: align.Right, Right: 3}),
			text.New("(Ky, ghi ro ho ten)", props.Text{Size: 7, Top: 9, Left: 3, Color: colorGray}),
			text.New("(Ky, ghi ro ho ten)", props.Text{Size: 7, Top: 9, Align: align.Right, Right: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}
