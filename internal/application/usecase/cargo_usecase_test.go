package usecase

import (
	"context"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phuong1932/logistics-deploy/internal/application/dto"
	"github.com/phuong1932/logistics-deploy/internal/application/ports"
	"github.com/phuong1932/logistics-deploy/internal/domain"
	"github.com/phuong1932/logistics-deploy/internal/domain/entity"
	"github.com/phuong1932/logistics-deploy/internal/infrastructure/memory"
	"github.com/phuong1932/logistics-deploy/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFiles guarda los documentos por ruta; failNext hace fallar la próxima escritura.
// day simula el directorio del día ("" o "yyyy-MM-dd/").
type fakeFiles struct {
	mu       sync.Mutex
	written  map[string]string // ruta -> nombre de empresa
	removed  []string
	failNext bool
	day      string
}

func newFakeFiles() *fakeFiles { return &fakeFiles{written: map[string]string{}} }

func (f *fakeFiles) Write(_ context.Context, c *entity.Cargo) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return "", errors.New("disco lleno")
	}
	p := "/data/" + f.day + c.Code + ".json"
	f.written[p] = c.CustomerCompanyName
	return p, nil
}

func (f *fakeFiles) Rewrite(ctx context.Context, c *entity.Cargo, current string) (string, error) {
	if current == "" || path.Base(current) != c.Code+".json" {
		return f.Write(ctx, c)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written[current] = c.CustomerCompanyName
	return current, nil
}

func (f *fakeFiles) Remove(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.written, path)
	f.removed = append(f.removed, path)
	return nil
}

// fakeQueue registra los trabajos encolados sin ejecutarlos.
type fakeQueue struct {
	jobs []ports.Job
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job ports.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Status(key string) (ports.JobStatus, bool) {
	for i := len(q.jobs) - 1; i >= 0; i-- {
		if q.jobs[i].Key == key {
			return ports.JobStatus{Key: key, Type: q.jobs[i].Type, State: ports.JobPending}, true
		}
	}
	return ports.JobStatus{}, false
}

func newCargoTest(t *testing.T) (*CargoUseCase, *memory.Store, *fakeFiles, *fakeQueue) {
	t.Helper()
	store := memory.NewStore()
	files := newFakeFiles()
	queue := &fakeQueue{}
	uc := NewCargoUseCase(store, files, queue, logger.Nop())
	uc.now = func() time.Time { return time.Date(2025, 6, 20, 9, 5, 7, 0, time.UTC) }
	return uc, store, files, queue
}

func TestCargoCreate_GeneraCodigoYArchivo(t *testing.T) {
	uc, _, files, queue := newCargoTest(t)

	out, err := uc.Create(context.Background(), dto.CreateCargoRequest{CustomerCompanyName: "ACME", EstimatedTotalAmount: d(100)})
	require.NoError(t, err)
	assert.Equal(t, "CG20250620090507", out.Code)
	assert.Regexp(t, `^CG\d{14}$`, out.Code)
	assert.Equal(t, FileWritten, out.FileSync)
	assert.Equal(t, "/data/CG20250620090507.json", out.FilePathJSON)
	assert.Equal(t, uint8(entity.CargoNew), out.Status)
	require.NotNil(t, out.LicenseDate)
	assert.Contains(t, files.written, out.FilePathJSON)
	assert.Empty(t, queue.jobs)

	got, err := uc.GetByID(context.Background(), uuid.MustParse(out.ID))
	require.NoError(t, err)
	assert.Equal(t, out.FilePathJSON, got.FilePathJSON, "la ruta quedó guardada")
}

func TestCargoCreate_FallaArchivoEncolaReintento(t *testing.T) {
	uc, _, files, queue := newCargoTest(t)
	files.failNext = true

	out, err := uc.Create(context.Background(), dto.CreateCargoRequest{CustomerCompanyName: "ACME"})
	require.NoError(t, err, "el lote se confirma aunque falle el archivo")
	assert.Empty(t, out.FilePathJSON)
	assert.Equal(t, FilePending, out.FileSync)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, ports.JobCargoFile, queue.jobs[0].Type)
	assert.Equal(t, out.ID, queue.jobs[0].Key)

	// El trabajo escribe el archivo y guarda la ruta.
	require.NoError(t, uc.HandleFileJob(context.Background(), queue.jobs[0]))
	got, err := uc.GetByID(context.Background(), uuid.MustParse(out.ID))
	require.NoError(t, err)
	assert.Equal(t, "/data/"+out.Code+".json", got.FilePathJSON)
}

func TestCargoCreate_CodigoDuplicadoYConductorInexistente(t *testing.T) {
	uc, _, files, _ := newCargoTest(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCargoRequest{Code: "LOTE-1", CustomerCompanyName: "A"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCargoRequest{Code: "LOTE-1", CustomerCompanyName: "B"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	missing := uuid.NewString()
	_, err = uc.Create(ctx, dto.CreateCargoRequest{CustomerCompanyName: "C", ShipperID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, files.written, 1, "los rechazados no dejan archivo")
}

func TestCargoUpdate_EncolaYRespondePending(t *testing.T) {
	uc, _, files, queue := newCargoTest(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateCargoRequest{CustomerCompanyName: "Antes"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, uuid.MustParse(created.ID), dto.UpdateCargoRequest{CustomerCompanyName: "Después"})
	require.NoError(t, err)
	assert.Equal(t, FilePending, out.FileSync)
	assert.Equal(t, created.Code, out.Code, "sin código en la petición se conserva")
	require.Len(t, queue.jobs, 1)

	assert.Equal(t, "Antes", files.written[created.FilePathJSON], "el archivo no cambia hasta el trabajo")
	require.NoError(t, uc.HandleFileJob(ctx, queue.jobs[0]))
	assert.Equal(t, "Después", files.written[created.FilePathJSON])

	_, err = uc.Update(ctx, uuid.New(), dto.UpdateCargoRequest{CustomerCompanyName: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleFileJob_ReescribeEnLaRutaGuardada(t *testing.T) {
	uc, _, files, queue := newCargoTest(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateCargoRequest{Code: "LOTE-7", CustomerCompanyName: "Antes"})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	// Al día siguiente la reescritura no mueve el archivo.
	files.day = "2025-06-21/"
	_, err = uc.Update(ctx, id, dto.UpdateCargoRequest{CustomerCompanyName: "Después"})
	require.NoError(t, err)
	require.NoError(t, uc.HandleFileJob(ctx, queue.jobs[0]))
	got, err := uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created.FilePathJSON, got.FilePathJSON)
	assert.Equal(t, "Después", files.written[created.FilePathJSON])
	assert.Empty(t, files.removed)

	// Con otro código el archivo pasa al directorio del día y se borra el anterior.
	_, err = uc.Update(ctx, id, dto.UpdateCargoRequest{Code: "LOTE-8", CustomerCompanyName: "Después"})
	require.NoError(t, err)
	require.NoError(t, uc.HandleFileJob(ctx, queue.jobs[1]))
	got, err = uc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "/data/2025-06-21/LOTE-8.json", got.FilePathJSON)
	assert.Equal(t, []string{created.FilePathJSON}, files.removed)
}

func TestCargo_CodigoConSeparadoresSeRechaza(t *testing.T) {
	uc, _, files, _ := newCargoTest(t)
	ctx := context.Background()

	for _, code := range []string{"../../../../escaped", "CG/2025", `CG\2025`, ".."} {
		_, err := uc.Create(ctx, dto.CreateCargoRequest{Code: code, CustomerCompanyName: "A"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, code)
	}
	assert.Empty(t, files.written)

	created, err := uc.Create(ctx, dto.CreateCargoRequest{Code: "LOTE-9", CustomerCompanyName: "A"})
	require.NoError(t, err)
	_, err = uc.Update(ctx, uuid.MustParse(created.ID), dto.UpdateCargoRequest{Code: "../fuera", CustomerCompanyName: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	got, err := uc.GetByID(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "LOTE-9", got.Code)
}

func TestCargoUpdate_ColaCaidaMarcaFailed(t *testing.T) {
	uc, _, _, queue := newCargoTest(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateCargoRequest{CustomerCompanyName: "A"})
	require.NoError(t, err)

	queue.err = errors.New("cola llena")
	out, err := uc.Update(ctx, uuid.MustParse(created.ID), dto.UpdateCargoRequest{CustomerCompanyName: "B"})
	require.NoError(t, err, "la actualización ya está confirmada")
	assert.Equal(t, FileFailed, out.FileSync)
}

func TestCargoDelete_BorraArchivo(t *testing.T) {
	uc, _, files, _ := newCargoTest(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateCargoRequest{CustomerCompanyName: "A"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, uuid.MustParse(created.ID)))
	assert.Equal(t, []string{created.FilePathJSON}, files.removed)
	got, err := uc.GetByID(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, uc.Delete(ctx, uuid.MustParse(created.ID)), domain.ErrNotFound)
}

func TestHandleFileJob_LoteBorradoNoEsError(t *testing.T) {
	uc, _, files, _ := newCargoTest(t)
	err := uc.HandleFileJob(context.Background(), ports.Job{Type: ports.JobCargoFile, Key: uuid.NewString()})
	assert.NoError(t, err)
	assert.Empty(t, files.written)

	err = uc.HandleFileJob(context.Background(), ports.Job{Type: ports.JobCargoFile, Key: "no-uuid"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCargoFileStatus(t *testing.T) {
	uc, _, files, _ := newCargoTest(t)
	ctx := context.Background()
	written, err := uc.Create(ctx, dto.CreateCargoRequest{CustomerCompanyName: "A"})
	require.NoError(t, err)

	st, err := uc.FileStatus(ctx, uuid.MustParse(written.ID))
	require.NoError(t, err)
	assert.Equal(t, FileWritten, st.State)

	st, err = uc.RegenerateFile(ctx, uuid.MustParse(written.ID))
	require.NoError(t, err)
	assert.Equal(t, ports.JobPending, st.State)

	files.failNext = true
	// La cola falsa ya tiene un trabajo para el primero; este queda pendiente también.
	pending, err := uc.Create(ctx, dto.CreateCargoRequest{Code: "OTRO", CustomerCompanyName: "B"})
	require.NoError(t, err)
	st, err = uc.FileStatus(ctx, uuid.MustParse(pending.ID))
	require.NoError(t, err)
	assert.Equal(t, ports.JobPending, st.State)

	_, err = uc.FileStatus(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCargoSearchYPorConductor(t *testing.T) {
	uc, store, _, _ := newCargoTest(t)
	ctx := context.Background()
	shipper := &entity.Shipper{ID: uuid.New(), Name: "Tài xế"}
	require.NoError(t, store.New().Shippers().Add(ctx, shipper))
	sid := shipper.ID.String()

	_, err := uc.Create(ctx, dto.CreateCargoRequest{Code: "CG-HN-01", CustomerCompanyName: "Hà Nội Co", ShipperID: &sid})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCargoRequest{Code: "CG-SG-02", CustomerCompanyName: "Sài Gòn Co"})
	require.NoError(t, err)

	byCode, err := uc.SearchByCode(ctx, "HN")
	require.NoError(t, err)
	assert.Len(t, byCode, 1)

	byCustomer, err := uc.SearchByCustomer(ctx, "Sài Gòn")
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	both, err := uc.Search(ctx, "Co")
	require.NoError(t, err)
	assert.Len(t, both, 2)

	all, err := uc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2, "sin término devuelve todos")

	byShipper, err := uc.ListByShipper(ctx, shipper.ID)
	require.NoError(t, err)
	require.Len(t, byShipper, 1)
	assert.Equal(t, "CG-HN-01", byShipper[0].Code)

	page, err := uc.List(ctx, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Page.Total)
}

func TestMonthlyStatistics(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	empty := monthlyStatistics(entity.CargoStatistics{}, start)
	assert.Equal(t, 0, empty.TotalCargos)
	assert.True(t, empty.AveragePerCargo.IsZero(), "sin lotes el promedio es 0")
	assert.Equal(t, "Tháng 2/2025", empty.MonthName)
	assert.Equal(t, "01/02/2025", empty.StartDate)
	assert.Equal(t, "28/02/2025", empty.EndDate)

	st := monthlyStatistics(entity.CargoStatistics{Count: 3, TotalRevenue: d(3000000)}, start)
	assert.True(t, st.AveragePerCargo.Equal(d(1000000)))
	assert.Equal(t, "3,000,000 VND", st.TotalRevenueFormatted)
	assert.Equal(t, "1,000,000 VND", st.AveragePerCargoFormatted)
}

func TestMonthlyStatistics_SoloMesEnCurso(t *testing.T) {
	uc, _, _, _ := newCargoTest(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateCargoRequest{Code: "A", CustomerCompanyName: "A", EstimatedTotalAmount: d(100)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCargoRequest{Code: "B", CustomerCompanyName: "B", EstimatedTotalAmount: d(300)})
	require.NoError(t, err)

	uc.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }
	_, err = uc.Create(ctx, dto.CreateCargoRequest{Code: "C", CustomerCompanyName: "C", EstimatedTotalAmount: d(999)})
	require.NoError(t, err)

	uc.now = func() time.Time { return time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC) }
	st, err := uc.MonthlyStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalCargos)
	assert.True(t, st.TotalRevenue.Equal(d(400)))
	assert.True(t, st.AveragePerCargo.Equal(d(200)))
	assert.Equal(t, 6, st.Month)
}
