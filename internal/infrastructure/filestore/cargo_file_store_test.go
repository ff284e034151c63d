package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCargo() *entity.Cargo {
	qty := 3
	return &entity.Cargo{
		ID:                   uuid.New(),
		Code:                 "CG20250102030405",
		CustomerCompanyName:  "Công ty <A&B>",
		ServiceType:          entity.ServiceImport,
		EstimatedTotalAmount: decimal.NewFromInt(1234567),
		AdvanceMoney:         decimal.RequireFromString("1000.50"),
		ShippingFee:          decimal.Zero,
		QuantityOfShipper:    &qty,
		CreatedAt:            time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestWrite_RutaYContenido(t *testing.T) {
	root := t.TempDir()
	s := NewCargoFileStore(root)
	s.now = func() time.Time { return time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC) }

	path, err := s.Write(context.Background(), sampleCargo())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("cargo", "cargo_list", "2025-02-10", "CG20250102030405_20250102.json"),
		strings.TrimPrefix(path, root+string(filepath.Separator)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Công ty <A&B>", "sin escape HTML")
	assert.Contains(t, string(raw), "\n  \"metadata\"", "indentado")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	info := doc["cargoInfo"].(map[string]any)
	assert.Equal(t, "CG20250102030405", info["cargoCode"])
	assert.Equal(t, "VẬN CHUYỂN", info["serviceType"].(map[string]any)["name"])
	fin := info["financial"].(map[string]any)
	assert.Equal(t, 1234567.0, fin["estimatedTotalAmount"])
	assert.Equal(t, "1,234,567 VND", fin["estimatedTotalAmountFormatted"])
	dates := info["dates"].(map[string]any)
	assert.Nil(t, dates["exchangeDate"])
	assert.Equal(t, "2025-01-02 03:04:05", dates["createdAt"])
	assert.Equal(t, "2025-02-10 08:00:00", doc["metadata"].(map[string]any)["createdDate"])
}

func TestWrite_ReemplazaSinTemporales(t *testing.T) {
	root := t.TempDir()
	s := NewCargoFileStore(root)
	c := sampleCargo()

	path, err := s.Write(context.Background(), c)
	require.NoError(t, err)
	c.CustomerCompanyName = "Nuevo nombre"
	again, err := s.Write(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, path, again)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Nuevo nombre")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no quedan archivos temporales")
}

func TestRemove_Idempotente(t *testing.T) {
	s := NewCargoFileStore(t.TempDir())
	path, err := s.Write(context.Background(), sampleCargo())
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Remove(context.Background(), path))
	assert.NoError(t, s.Remove(context.Background(), ""))
}

func TestWrite_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCargoFileStore(t.TempDir()).Write(ctx, sampleCargo())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrite_CodigoNoSaleDeLaRaiz(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "storage")
	s := NewCargoFileStore(root)

	for _, code := range []string{"../../../../escaped", "CG/2025", `CG\2025`, "..", ""} {
		c := sampleCargo()
		c.Code = code
		_, err := s.Write(context.Background(), c)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, code)
	}

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "no se crea nada fuera ni dentro de la raíz")
}

func TestRewrite_ConservaLaRutaDeOtroDia(t *testing.T) {
	root := t.TempDir()
	s := NewCargoFileStore(root)
	s.now = func() time.Time { return time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC) }
	c := sampleCargo()
	first, err := s.Write(context.Background(), c)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2025, 2, 11, 8, 0, 0, 0, time.UTC) }
	c.CustomerCompanyName = "Reescrito"
	again, err := s.Rewrite(context.Background(), c, first)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	raw, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Reescrito")
	_, err = os.Stat(s.Dir(s.now()))
	assert.True(t, os.IsNotExist(err), "no se crea el directorio del día")

	c.Code = "CG20250102999999"
	moved, err := s.Rewrite(context.Background(), c, first)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("cargo", "cargo_list", "2025-02-11", "CG20250102999999_20250102.json"),
		strings.TrimPrefix(moved, root+string(filepath.Separator)))
}

func TestRewrite_RutaAjenaEscribeEnElDia(t *testing.T) {
	root := t.TempDir()
	s := NewCargoFileStore(root)
	s.now = func() time.Time { return time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC) }
	c := sampleCargo()

	outside := filepath.Join(t.TempDir(), "CG20250102030405_20250102.json")
	path, err := s.Rewrite(context.Background(), c, outside)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(s.now()), "CG20250102030405_20250102.json"), path)
	_, err = os.Stat(outside)
	assert.True(t, os.IsNotExist(err))
}
