package pdf

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCargoWaybill_GeneraPDF(t *testing.T) {
	qty := 2
	c := &entity.Cargo{
		ID:                   uuid.New(),
		Code:                 "CG20250101120000",
		CustomerCompanyName:  "Cong ty A",
		EstimatedTotalAmount: decimal.NewFromInt(1500000),
		AdvanceMoney:         decimal.NewFromInt(200000),
		ShippingFee:          decimal.NewFromInt(300000),
		QuantityOfShipper:    &qty,
		CreatedAt:            time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	for name, shipper := range map[string]*entity.Shipper{
		"sin conductor": nil,
		"con conductor": {ID: uuid.New(), Name: "Tai xe B", VehicleType: entity.VehicleLargeTruck, Phone: "0900"},
	} {
		t.Run(name, func(t *testing.T) {
			out, err := NewMarotoWaybillGenerator("Thien Thanh").CargoWaybill(c, shipper)
			require.NoError(t, err)
			require.NotEmpty(t, out)
			assert.Equal(t, "%PDF", string(out[:4]))
		})
	}
}
