// Package filestore mantiene en disco la copia JSON de cada lote.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/pkg/money"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	fileType    = "Cargo Information"
	fileVersion = "1.0"
	description = "File này được tạo tự động khi thêm cargo mới"

	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

// CargoFileStore escribe los documentos bajo <root>/cargo/cargo_list/<yyyy-MM-dd>/.
// Cada escritura es atómica: archivo temporal en el mismo directorio, fsync y rename.
type CargoFileStore struct {
	root string
	now  func() time.Time
}

// NewCargoFileStore construye el almacén con raíz root.
func NewCargoFileStore(root string) *CargoFileStore {
	return &CargoFileStore{root: root, now: time.Now}
}

// Dir directorio del día dado.
func (s *CargoFileStore) Dir(day time.Time) string {
	return filepath.Join(s.root, "cargo", "cargo_list", day.Format(dateLayout))
}

// Write serializa el lote y reemplaza atómicamente su archivo en el directorio del
// día. Devuelve la ruta absoluta.
func (s *CargoFileStore) Write(ctx context.Context, c *entity.Cargo) (string, error) {
	return s.Rewrite(ctx, c, "")
}

// Rewrite reescribe el archivo en current cuando esa ruta sigue siendo la del lote:
// está bajo la raíz y su nombre coincide con el código y la fecha de creación. Si no,
// escribe en el directorio del día como Write.
func (s *CargoFileStore) Rewrite(ctx context.Context, c *entity.Cargo, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := s.now()
	name, err := fileName(c, now)
	if err != nil {
		return "", err
	}
	content, err := Render(c, now)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir(now), name)
	if current != "" && filepath.Base(current) == name && s.contains(current) {
		path = current
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if !s.contains(path) {
		return "", fmt.Errorf("%w: ruta %s fuera de la raíz", domain.ErrInvalidInput, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("filestore: crear directorio: %w", err)
	}
	if err := writeAtomic(path, content); err != nil {
		return "", err
	}
	log.Debug().Str("path", path).Str("cargo_id", c.ID.String()).Msg("archivo de lote escrito")
	return path, nil
}

// fileName "<código>_<yyyyMMdd de creación>.json"; ErrInvalidInput si el código
// no puede formar un nombre de archivo.
func fileName(c *entity.Cargo, now time.Time) (string, error) {
	created := c.CreatedAt
	if created.IsZero() {
		created = now
	}
	name := fmt.Sprintf("%s_%s.json", c.Code, created.Format("20060102"))
	if !entity.ValidCargoCode(c.Code) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: código %q no sirve como nombre de archivo", domain.ErrInvalidInput, c.Code)
	}
	return name, nil
}

// contains indica si path queda dentro de <root>/cargo/cargo_list.
func (s *CargoFileStore) contains(path string) bool {
	base, err := filepath.Abs(filepath.Join(s.root, "cargo", "cargo_list"))
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Remove borra el archivo; no falla si ya no existe.
func (s *CargoFileStore) Remove(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: borrar %s: %w", path, err)
	}
	return nil
}

func writeAtomic(path string, content []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cargo-*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: archivo temporal: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("filestore: escribir: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("filestore: sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("filestore: cerrar: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("filestore: permisos: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("filestore: renombrar: %w", err)
	}
	return nil
}

// Document forma del archivo JSON de un lote.
type Document struct {
	Metadata  Metadata  `json:"metadata"`
	CargoInfo CargoInfo `json:"cargoInfo"`
}

type Metadata struct {
	FileType    string `json:"fileType"`
	Version     string `json:"version"`
	CreatedDate string `json:"createdDate"`
	Description string `json:"description"`
}

type CargoInfo struct {
	ID                     string      `json:"id"`
	CargoCode              string      `json:"cargoCode"`
	CustomerCompanyName    string      `json:"customerCompanyName"`
	CustomerPersonInCharge string      `json:"customerPersonInCharge"`
	EmployeeCreate         string      `json:"employeeCreate"`
	CustomerAddress        string      `json:"customerAddress"`
	ServiceType            ServiceType `json:"serviceType"`
	Dates                  Dates       `json:"dates"`
	Financial              Financial   `json:"financial"`
	Logistics              Logistics   `json:"logistics"`
}

type ServiceType struct {
	Code uint8  `json:"code"`
	Name string `json:"name"`
}

type Dates struct {
	LicenseDate  *string `json:"licenseDate"`
	ExchangeDate *string `json:"exchangeDate"`
	CreatedAt    string  `json:"createdAt"`
}

type Financial struct {
	EstimatedTotalAmount          json.Number `json:"estimatedTotalAmount"`
	AdvanceMoney                  json.Number `json:"advanceMoney"`
	ShippingFee                   json.Number `json:"shippingFee"`
	EstimatedTotalAmountFormatted string      `json:"estimatedTotalAmountFormatted"`
	AdvanceMoneyFormatted         string      `json:"advanceMoneyFormatted"`
	ShippingFeeFormatted          string      `json:"shippingFeeFormatted"`
}

type Logistics struct {
	QuantityOfShipper *int `json:"quantityOfShipper"`
}

// Render produce el documento indentado, sin escapar HTML.
func Render(c *entity.Cargo, now time.Time) ([]byte, error) {
	doc := Document{
		Metadata: Metadata{
			FileType:    fileType,
			Version:     fileVersion,
			CreatedDate: now.Format(dateTimeLayout),
			Description: description,
		},
		CargoInfo: CargoInfo{
			ID:                     c.ID.String(),
			CargoCode:              c.Code,
			CustomerCompanyName:    c.CustomerCompanyName,
			CustomerPersonInCharge: c.CustomerPersonInCharge,
			EmployeeCreate:         c.EmployeeCreate,
			CustomerAddress:        c.CustomerAddress,
			ServiceType:            ServiceType{Code: uint8(c.ServiceType), Name: c.ServiceType.ReportCategory()},
			Dates: Dates{
				LicenseDate:  formatPtr(c.LicenseDate, dateTimeLayout),
				ExchangeDate: formatPtr(c.ExchangeDate, dateLayout),
				CreatedAt:    c.CreatedAt.Format(dateTimeLayout),
			},
			Financial: Financial{
				EstimatedTotalAmount:          number(c.EstimatedTotalAmount),
				AdvanceMoney:                  number(c.AdvanceMoney),
				ShippingFee:                   number(c.ShippingFee),
				EstimatedTotalAmountFormatted: money.VND(c.EstimatedTotalAmount),
				AdvanceMoneyFormatted:         money.VND(c.AdvanceMoney),
				ShippingFeeFormatted:          money.VND(c.ShippingFee),
			},
			Logistics: Logistics{QuantityOfShipper: c.QuantityOfShipper},
		},
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("filestore: serializar lote: %w", err)
	}
	return buf.Bytes(), nil
}

func formatPtr(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
